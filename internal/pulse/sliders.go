package pulse

import "fmt"

// DefaultFrequency is returned for frequency slider indices outside the table.
const DefaultFrequency = 10

// frequencySliderValues maps frequency slider positions to Hz. The step size
// widens as the frequency grows, so the table is assembled from progressions
// rather than a single formula.
var frequencySliderValues = buildFrequencyTable()

// sectionTimeValues maps section duration slider positions to seconds. The
// spacing is irregular and has to stay verbatim.
var sectionTimeValues = [...]float64{
	0.1, 0.1, 0.1, 0.1, 0.1,
	0.2, 0.2, 0.2,
	0.3, 0.3, 0.3,
	0.4, 0.4,
	0.5, 0.5,
	0.6, 0.6,
	0.7, 0.7,
	0.8,
	0.9, 0.9,
	1.0,
	1.1, 1.1,
	1.2,
	1.3, 1.3,
	1.4, 1.5,
	1.6, 1.6,
	1.7, 1.8, 1.9, 2.0,
	2.1, 2.1,
	2.2, 2.3, 2.4, 2.5,
	2.6, 2.7, 2.8, 2.9, 3.0,
	3.1, 3.2, 3.3, 3.4, 3.5,
	3.6, 3.7, 3.8, 3.9, 4.1,
	4.2, 4.3, 4.4, 4.5, 4.6,
	4.7, 4.9, 5.0, 5.1, 5.2,
	5.4, 5.5, 5.6, 5.7, 5.9,
	6.0, 6.1, 6.3, 6.4, 6.5,
	6.7, 6.8, 6.9, 7.1, 7.2,
	7.4, 7.5, 7.6, 7.8, 7.9,
	8.1, 8.2, 8.4, 8.5, 8.7,
	8.8, 9.0, 9.1, 9.3, 9.4,
	9.6, 9.7, 9.9, 10.0,
}

type progression struct {
	start, end, step int // end is exclusive
}

func buildFrequencyTable() []int {
	table := make([]int, 0, 84)
	appendRange := func(p progression) {
		for v := p.start; v < p.end; v += p.step {
			table = append(table, v)
		}
	}
	appendRange(progression{10, 50, 1})
	appendRange(progression{50, 80, 2})
	appendRange(progression{80, 100, 5})
	appendRange(progression{100, 200, 10})
	table = append(table, 200, 233, 266, 300, 333, 366)
	appendRange(progression{400, 600, 50})
	appendRange(progression{600, 1001, 100})
	return table
}

// FrequencyFromSlider returns the frequency in Hz for a slider index. Indices
// outside the table fall back to DefaultFrequency instead of failing.
func FrequencyFromSlider(index int) int {
	if index < 0 || index >= len(frequencySliderValues) {
		return DefaultFrequency
	}
	return frequencySliderValues[index]
}

// DurationFromSlider returns the section duration in seconds for a slider
// index. Unlike frequencies there is no fallback: indices outside the table
// fail with ErrOutOfRange.
func DurationFromSlider(index int) (float64, error) {
	if index < 0 || index >= len(sectionTimeValues) {
		return 0, wrap(ErrOutOfRange, "section time",
			fmt.Sprintf("index %d outside [0,%d)", index, len(sectionTimeValues)), nil)
	}
	return sectionTimeValues[index], nil
}

// FrequencySliderCount reports the number of frequency slider positions.
func FrequencySliderCount() int { return len(frequencySliderValues) }

// DurationSliderCount reports the number of section duration slider positions.
func DurationSliderCount() int { return len(sectionTimeValues) }
