package elemgo

import (
	"log/slog"
	"time"

	"github.com/hupe1980/elemgo/codec"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/journal"
	"github.com/hupe1980/elemgo/resource"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	journalPath      string
	journalOptions   []func(*journal.Options)
	snapshotPath     string // Path for auto-snapshot saves
	autoSnapshot     time.Duration
	resources        *resource.Controller
	idStart          element.ID
}

// Option configures model constructor/load behavior.
type Option func(*options)

// WithCodec configures the codec used to encode and decode element payloads
// in snapshots and the journal.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithJournal configures an append-only mutation journal for durability.
// The journal is immutable after model creation - it cannot be enabled or
// disabled at runtime.
//
// Example:
//
//	m, _ := elemgo.New(
//	    elemgo.WithJournal("./journal", func(o *journal.Options) {
//	        o.Compress = true
//	    }),
//	)
func WithJournal(path string, optFns ...func(*journal.Options)) Option {
	return func(o *options) {
		o.journalPath = path
		o.journalOptions = optFns
	}
}

// WithSnapshotPath configures the file the model snapshots itself to.
// SaveToFile on this path truncates the journal on success, and the
// auto-snapshot loop (see WithAutoSnapshotInterval) writes here.
func WithSnapshotPath(path string) Option {
	return func(o *options) {
		o.snapshotPath = path
	}
}

// WithAutoSnapshotInterval enables a background loop that periodically saves
// the model to the configured snapshot path and truncates the journal.
// The loop only runs when a snapshot path is set; an interval <= 0 disables it.
func WithAutoSnapshotInterval(interval time.Duration) Option {
	return func(o *options) {
		o.autoSnapshot = interval
	}
}

// WithResourceController attaches a resource controller. Snapshot IO is rate
// limited through it and the auto-snapshot loop respects its background slots.
// A nil controller means unlimited.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithIDStart sets the first id the model assigns to elements added without
// an explicit id. The default is 1.
func WithIDStart(id element.ID) Option {
	return func(o *options) {
		o.idStart = id
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &elemgo.BasicMetricsCollector{}
//	m, _ := elemgo.New(elemgo.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.Snapshot()
//	fmt.Printf("Adds: %d, Avg latency: %dns\n", stats.AddCount, stats.AddAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := elemgo.NewJSONLogger(slog.LevelInfo)
//	m, _ := elemgo.New(elemgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            nil,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
