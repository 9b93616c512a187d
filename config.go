package depot

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const defaultColumnCapacity = 64

// Config holds the tunables of a database.
type Config struct {
	// LogLevel filters the database logger. Empty keeps the logger's own level.
	LogLevel string `config:"DEPOT_LOG_LEVEL"`

	// ReclaimEmptyTables frees a table as soon as a migration or despawn leaves
	// it without rows. When false, emptied tables are kept for reuse.
	ReclaimEmptyTables bool `config:"DEPOT_RECLAIM_EMPTY_TABLES"`

	// ColumnCapacity is the number of rows a column allocates on first growth.
	ColumnCapacity int `config:"DEPOT_COLUMN_CAPACITY"`
}

func DefaultConfig() Config {
	return Config{
		ColumnCapacity: defaultColumnCapacity,
	}
}

// ConfigFromEnv overlays DEPOT_* environment variables on DefaultConfig.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to load config from environment")
	}
	return cfg, nil
}

// Option augments how a Database (or a World's database) is built.
type Option func(*options)

type options struct {
	cfg    Config
	logger zerolog.Logger
}

func newOptions(opts ...Option) (options, error) {
	o := options{
		cfg:    DefaultConfig(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg.ColumnCapacity < 1 {
		o.cfg.ColumnCapacity = defaultColumnCapacity
	}
	if o.cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(o.cfg.LogLevel)
		if err != nil {
			return options{}, eris.Wrapf(err, "invalid log level %q", o.cfg.LogLevel)
		}
		o.logger = o.logger.Level(level)
	}
	return o, nil
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger for table and migration events. The default
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithColumnCapacity(rows int) Option {
	return func(o *options) {
		o.cfg.ColumnCapacity = rows
	}
}

func WithReclaimEmptyTables(reclaim bool) Option {
	return func(o *options) {
		o.cfg.ReclaimEmptyTables = reclaim
	}
}
