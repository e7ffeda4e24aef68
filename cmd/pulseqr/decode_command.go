package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pulseqr/internal/hexpulse"
	"pulseqr/internal/logging"
	"pulseqr/internal/pulse"
	"pulseqr/internal/qrscan"
)

type decodeOutput struct {
	URL       string          `json:"url"`
	Waveform  *pulse.Waveform `json:"waveform"`
	PulseData []string        `json:"pulseData,omitempty"`
}

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var imagePath string
	var jsonOutput bool
	var showFrames bool

	cmd := &cobra.Command{
		Use:   "decode [url]",
		Short: "Decode a single pulse QR URL or image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "decode")

			var url string
			switch {
			case len(args) == 1 && strings.TrimSpace(imagePath) != "":
				return errors.New("pass either a url or --image, not both")
			case len(args) == 1:
				url = args[0]
			case strings.TrimSpace(imagePath) != "":
				url, err = qrscan.New(cfg.Scan.TryHarder).ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read qr code: %w", err)
				}
				logger.Debug("qr code read",
					logging.String(logging.FieldSourceFile, imagePath),
					logging.Bool("try_harder", cfg.Scan.TryHarder),
				)
			default:
				return errors.New("a pulse url or --image is required")
			}

			wave, err := pulse.NewDecoder(cfg.Decode.MaxInflatedBytes).Decode(url)
			if err != nil {
				logging.ErrorWithContext(logger, "decode failed", "decode_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "verify the url contains "+pulse.Marker+" followed by hex data"),
				)
				return fmt.Errorf("decode pulse: %w", err)
			}
			logger.Info("pulse decoded",
				logging.Int("sections", len(wave.Sections)),
				logging.Float64("sleep_time", wave.SleepTime),
			)

			var frames []string
			if showFrames || jsonOutput {
				frames = hexpulse.Encode(wave)
			}
			if jsonOutput {
				out := decodeOutput{URL: url, Waveform: wave}
				if showFrames {
					out.PulseData = frames
				}
				return writeJSON(cmd, out)
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintln(stdout, renderWaveform(wave))
			if showFrames {
				fmt.Fprintln(stdout, renderFrames(frames))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Read the pulse URL from a QR code image")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the decoded waveform as JSON")
	cmd.Flags().BoolVar(&showFrames, "frames", false, "Include the hex frames")
	return cmd
}

func renderWaveform(wave *pulse.Waveform) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sections: %d  Sleep: %ss  Speed factor: %d\n",
		len(wave.Sections), formatSeconds(wave.SleepTime), wave.SpeedFactor)
	if len(wave.Sections) == 0 {
		b.WriteString("No enabled sections")
		return b.String()
	}
	rows := make([][]string, 0, len(wave.Sections))
	for i, section := range wave.Sections {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			section.Freq.String(),
			section.FreqMode.String(),
			formatSeconds(section.SectionTime),
			strconv.Itoa(len(section.Pulse)),
			joinInts(section.Pulse),
		})
	}
	b.WriteString(renderTable(
		[]string{"#", "Frequency", "Mode", "Time (s)", "Samples", "Intensity"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return b.String()
}

func renderFrames(frames []string) string {
	rows := make([][]string, 0, len(frames))
	for i, frame := range frames {
		rows = append(rows, []string{strconv.Itoa(i), fmt.Sprintf("%.1f", float64(i)/hexpulse.FramesPerSecond), frame})
	}
	return renderTable([]string{"Frame", "At (s)", "Hex"}, rows, []columnAlignment{alignRight, alignRight, alignLeft})
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
