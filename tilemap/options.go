package tilemap

import (
	"log/slog"

	"github.com/adm87/tmx"
)

type config struct {
	ExternalTilesets map[string]*tmx.Tileset
	Logger           *slog.Logger
	StrictGIDs       bool
}

type Option func(*config)

// WithExternalTilesets supplies the definitions of external tilesets, keyed
// by the source path exactly as it appears in the map document.
func WithExternalTilesets(tilesets map[string]*tmx.Tileset) Option {
	return func(c *config) { c.ExternalTilesets = tilesets }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// WithStrictGIDs makes a gid below every tileset's firstgid an error
// (ErrTilesetNotFound) instead of attributing it to the first tileset.
func WithStrictGIDs() Option {
	return func(c *config) { c.StrictGIDs = true }
}

func newConfig(opts []Option) config {
	cfg := config{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}
