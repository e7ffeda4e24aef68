package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pulseqr/internal/config"
	"pulseqr/internal/hexpulse"
	"pulseqr/internal/library"
	"pulseqr/internal/logging"
	"pulseqr/internal/pulse"
	"pulseqr/internal/qrscan"
)

// ErrNoPulses indicates a directory produced no decodable pulse.
var ErrNoPulses = errors.New("no pulse qr code found")

// Failure kinds reported on Item.Kind.
const (
	KindInvalidFormat = "invalid_format"
	KindDecompression = "decompression"
	KindOutOfRange    = "out_of_range"
	KindQRNotFound    = "qr_not_found"
	KindIO            = "io"
)

// QRReader extracts the text payload from an image file.
type QRReader interface {
	ReadFile(path string) (string, error)
}

// PulseStore records generated pulses.
type PulseStore interface {
	Upsert(ctx context.Context, rec library.Record) (*library.Record, error)
}

// Item is the outcome for one image.
type Item struct {
	Path     string
	URL      string
	Waveform *pulse.Waveform
	Entry    *Entry
	Err      error
	Kind     string
}

// OK reports whether the image produced a pulse.
func (i Item) OK() bool { return i.Err == nil && i.Entry != nil }

// Result summarizes a batch run.
type Result struct {
	RunID       string
	Dir         string
	Items       []Item
	Entries     []Entry
	Failed      int
	StoreErrors int
	Elapsed     time.Duration
}

// Processor decodes every QR image in a directory.
type Processor struct {
	scan    config.Scan
	decoder *pulse.Decoder
	reader  QRReader
	store   PulseStore
	logger  *slog.Logger

	// OnItem, when set, is called once per image as it completes. Calls are
	// serialized.
	OnItem func(Item)
	mu     sync.Mutex
}

// NewProcessor builds a Processor from configuration. store may be nil to
// skip library persistence.
func NewProcessor(cfg *config.Config, reader QRReader, store PulseStore, logger *slog.Logger) (*Processor, error) {
	if cfg == nil || reader == nil {
		return nil, errors.New("batch processor requires config and qr reader")
	}
	return &Processor{
		scan:    cfg.Scan,
		decoder: pulse.NewDecoder(cfg.Decode.MaxInflatedBytes),
		reader:  reader,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "batch"),
	}, nil
}

// Run processes the images in dir. Per-image failures are recorded on the
// returned items; the error is reserved for an unreadable directory, a
// cancelled context, or ErrNoPulses.
func (p *Processor) Run(ctx context.Context, dir string) (*Result, error) {
	started := time.Now()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !p.scan.HasExtension(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	result := &Result{RunID: uuid.NewString(), Dir: dir, Items: make([]Item, len(files))}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("batch started",
		logging.String("dir", dir),
		logging.Int("images", len(files)),
		logging.Int("workers", p.workers()),
		logging.Bool("library", p.store != nil),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := p.processFile(logging.WithSourceFile(gctx, path), path)
			result.Items[i] = item
			p.notify(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, item := range result.Items {
		if !item.OK() {
			result.Failed++
			continue
		}
		result.Entries = append(result.Entries, *item.Entry)
		if p.store != nil {
			if err := p.record(ctx, item); err != nil {
				result.StoreErrors++
				logging.WarnWithContext(logger, "library update failed; pulse kept in output only", "library_upsert_failed",
					logging.String(logging.FieldPulseID, item.Entry.ID),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check paths.library_db permissions or run with --no-library"),
				)
			}
		}
	}
	result.Elapsed = time.Since(started)

	logger.Info("batch finished",
		logging.Int("pulses", len(result.Entries)),
		logging.Int("failed", result.Failed),
		logging.Duration("elapsed", result.Elapsed),
	)
	if len(result.Entries) == 0 {
		return result, ErrNoPulses
	}
	return result, nil
}

func (p *Processor) processFile(ctx context.Context, path string) Item {
	logger := logging.WithContext(ctx, p.logger)
	item := Item{Path: path}

	url, err := p.reader.ReadFile(path)
	if err != nil {
		return p.fail(logger, item, err)
	}
	item.URL = url

	wave, err := p.decoder.Decode(url)
	if err != nil {
		return p.fail(logger, item, err)
	}
	item.Waveform = wave

	frames := hexpulse.Encode(wave)
	item.Entry = &Entry{
		ID:        PulseID(frames),
		Name:      PulseName(path, p.scan.StripNumericPrefix),
		PulseData: frames,
	}
	logger.Info("pulse generated",
		logging.String(logging.FieldPulseID, item.Entry.ID),
		logging.String("name", item.Entry.Name),
		logging.Int("sections", len(wave.Sections)),
		logging.Int("frames", len(frames)),
		logging.Float64("sleep_time", wave.SleepTime),
	)
	return item
}

func (p *Processor) fail(logger *slog.Logger, item Item, err error) Item {
	item.Err = err
	item.Kind = Classify(err)
	logging.WarnWithContext(logger, "image skipped", "pulse_skipped",
		logging.String("kind", item.Kind),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hintFor(item.Kind)),
		logging.String(logging.FieldImpact, "image left out of the pulse list"),
	)
	return item
}

func (p *Processor) record(ctx context.Context, item Item) error {
	_, err := p.store.Upsert(ctx, library.Record{
		ID:         item.Entry.ID,
		Name:       item.Entry.Name,
		SourcePath: item.Path,
		URL:        item.URL,
		Waveform:   item.Waveform,
		Frames:     item.Entry.PulseData,
	})
	return err
}

func (p *Processor) notify(item Item) {
	if p.OnItem == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.OnItem(item)
}

func (p *Processor) workers() int {
	if p.scan.Workers <= 0 {
		return 1
	}
	return p.scan.Workers
}

// Classify maps an item error onto one of the Kind constants.
func Classify(err error) string {
	switch {
	case errors.Is(err, pulse.ErrInvalidFormat):
		return KindInvalidFormat
	case errors.Is(err, pulse.ErrDecompression):
		return KindDecompression
	case errors.Is(err, pulse.ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, qrscan.ErrNoQRCode):
		return KindQRNotFound
	default:
		return KindIO
	}
}

func hintFor(kind string) string {
	switch kind {
	case KindQRNotFound:
		return "crop the image closer to the code or raise its resolution"
	case KindInvalidFormat, KindOutOfRange:
		return "image does not hold a DG-LAB pulse; re-export it from the app"
	case KindDecompression:
		return "payload is corrupt or larger than decode.max_inflated_bytes"
	default:
		return "check the file is readable"
	}
}
