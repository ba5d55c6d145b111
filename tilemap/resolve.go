package tilemap

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/adm87/tmx"
)

// Resolve builds a resolved map without suspending. Compressed payloads fail
// with an error matching tmx.ErrStreamRequired; use ResolveStream for those.
//
// The input is not modified. On error no partial map is returned.
func Resolve(m *tmx.Map, opts ...Option) (*Map, error) {
	r := resolver{
		decode: func(_ context.Context, p tmx.Payload, enc tmx.Encoding, comp tmx.Compression) ([]uint32, error) {
			return tmx.DecodePayload(p, enc, comp)
		},
	}
	return r.run(context.Background(), m, opts)
}

// ResolveStream builds a resolved map, decompressing gzip and zlib payloads.
// Sibling layers and sibling chunks are decoded concurrently; the output
// keeps document order. For uncompressed input the result equals Resolve's.
func ResolveStream(ctx context.Context, m *tmx.Map, opts ...Option) (*Map, error) {
	r := resolver{
		decode:     tmx.DecodePayloadStream,
		concurrent: true,
	}
	return r.run(ctx, m, opts)
}

type decodeFunc func(ctx context.Context, p tmx.Payload, enc tmx.Encoding, comp tmx.Compression) ([]uint32, error)

type resolver struct {
	decode     decodeFunc
	concurrent bool

	logger *slog.Logger
	tiles  tileResolver
}

func (r *resolver) run(ctx context.Context, m *tmx.Map, opts []Option) (*Map, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil map", ErrInvalidMap)
	}

	cfg := newConfig(opts)
	r.logger = cfg.Logger

	tilesets, err := resolveTilesets(m.Tilesets, &cfg)
	if err != nil {
		return nil, err
	}
	r.tiles = tileResolver{tilesets: tilesets, strict: cfg.StrictGIDs}

	layers, err := r.resolveLayers(ctx, m.Layers)
	if err != nil {
		return nil, err
	}

	// A chunked layer makes the map infinite even without the flag.
	infinite := m.IsInfinite() || hasInfiniteLayer(layers)

	r.logger.Debug("resolved map",
		slog.String("orientation", m.Orientation.String()),
		slog.Int("tilesets", len(tilesets)),
		slog.Int("layers", len(layers)),
		slog.Bool("infinite", infinite),
	)

	return &Map{
		Version:         m.Version,
		TiledVersion:    m.TiledVersion,
		Class:           m.Class,
		Orientation:     m.Orientation,
		RenderOrder:     m.RenderOrder,
		Width:           m.Width,
		Height:          m.Height,
		TileWidth:       m.TileWidth,
		TileHeight:      m.TileHeight,
		Infinite:        infinite,
		HexSideLength:   m.HexSideLength,
		StaggerAxis:     m.StaggerAxis,
		StaggerIndex:    m.StaggerIndex,
		BackgroundColor: m.BackgroundColor,
		ParallaxOriginX: m.ParallaxOriginX,
		ParallaxOriginY: m.ParallaxOriginY,
		Properties:      properties(m.Properties),
		Tilesets:        tilesets,
		Layers:          layers,
	}, nil
}

func hasInfiniteLayer(layers []Layer) bool {
	found := false
	walkTileLayers(layers, true, func(l *TileLayer, _ bool) {
		found = found || l.Infinite
	})
	return found
}

// each calls fn for every index in [0, n). In streaming mode the calls run
// concurrently and the first error cancels the rest.
func (r *resolver) each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if !r.concurrent {
		for i := range n {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

func (r *resolver) resolveLayers(ctx context.Context, raw []tmx.Layer) ([]Layer, error) {
	layers := make([]Layer, len(raw))
	err := r.each(ctx, len(raw), func(ctx context.Context, i int) error {
		layer, err := r.resolveLayer(ctx, raw[i])
		if err != nil {
			return fmt.Errorf("layer %q: %w", raw[i].Common().Name, err)
		}
		layers[i] = layer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return layers, nil
}

func (r *resolver) resolveLayer(ctx context.Context, raw tmx.Layer) (Layer, error) {
	switch l := raw.(type) {
	case *tmx.TileLayer:
		return r.resolveTileLayer(ctx, l)
	case *tmx.ImageLayer:
		return resolveImageLayer(l), nil
	case *tmx.ObjectGroup:
		return resolveObjectLayer(l), nil
	case *tmx.Group:
		children, err := r.resolveLayers(ctx, l.Layers)
		if err != nil {
			return nil, err
		}
		return &GroupLayer{LayerBase: newLayerBase(&l.LayerCommon), Layers: children}, nil
	}
	return nil, fmt.Errorf("%w: %T", tmx.ErrUnknownLayerType, raw)
}

func (r *resolver) resolveTileLayer(ctx context.Context, raw *tmx.TileLayer) (*TileLayer, error) {
	layer := &TileLayer{
		LayerBase: newLayerBase(&raw.LayerCommon),
		Width:     raw.Width,
		Height:    raw.Height,
	}
	data := &raw.Data

	var fallbacks int
	if len(data.Chunks) > 0 {
		layer.Infinite = true
		layer.Chunks = make([]Chunk, len(data.Chunks))
		chunkFallbacks := make([]int, len(data.Chunks))

		err := r.each(ctx, len(data.Chunks), func(ctx context.Context, i int) error {
			c := &data.Chunks[i]
			gids, err := r.decode(ctx, c.Payload, data.Encoding, data.Compression)
			if err != nil {
				return fmt.Errorf("chunk (%d,%d): %w", c.X, c.Y, err)
			}
			tiles, n, err := r.tiles.resolve(gids)
			if err != nil {
				return fmt.Errorf("chunk (%d,%d): %w", c.X, c.Y, err)
			}
			layer.Chunks[i] = Chunk{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Tiles: tiles}
			chunkFallbacks[i] = n
			return nil
		})
		if err != nil {
			return nil, err
		}
		for _, n := range chunkFallbacks {
			fallbacks += n
		}
	} else {
		gids, err := r.decode(ctx, data.Payload, data.Encoding, data.Compression)
		if err != nil {
			return nil, err
		}
		tiles, n, err := r.tiles.resolve(gids)
		if err != nil {
			return nil, err
		}
		layer.Tiles = tiles
		fallbacks = n
	}

	if fallbacks > 0 {
		r.logger.Warn("gids below every tileset's firstgid attributed to tileset 0",
			slog.String("layer", layer.Name),
			slog.Int("count", fallbacks),
		)
	}
	r.logger.Debug("resolved tile layer",
		slog.String("layer", layer.Name),
		slog.Bool("infinite", layer.Infinite),
		slog.Int("tiles", len(layer.Tiles)),
		slog.Int("chunks", len(layer.Chunks)),
	)
	return layer, nil
}

func resolveImageLayer(raw *tmx.ImageLayer) *ImageLayer {
	return &ImageLayer{
		LayerBase: newLayerBase(&raw.LayerCommon),
		X:         raw.X,
		Y:         raw.Y,
		Image:     raw.Image,
		RepeatX:   raw.RepeatX != nil && *raw.RepeatX,
		RepeatY:   raw.RepeatY != nil && *raw.RepeatY,
	}
}

func resolveObjectLayer(raw *tmx.ObjectGroup) *ObjectLayer {
	objects := tmx.CloneObjects(raw.Objects)
	if objects == nil {
		objects = []tmx.Object{}
	}
	return &ObjectLayer{
		LayerBase: newLayerBase(&raw.LayerCommon),
		Color:     raw.Color,
		DrawOrder: raw.DrawOrder,
		Objects:   objects,
	}
}

func newLayerBase(lc *tmx.LayerCommon) LayerBase {
	return LayerBase{
		ID:         lc.ID,
		Name:       lc.Name,
		Class:      lc.Class,
		Flags:      lc.Flags,
		Opacity:    valueOr(lc.Opacity, 1),
		OffsetX:    valueOr(lc.OffsetX, 0),
		OffsetY:    valueOr(lc.OffsetY, 0),
		ParallaxX:  valueOr(lc.ParallaxX, 1),
		ParallaxY:  valueOr(lc.ParallaxY, 1),
		TintColor:  lc.TintColor,
		Properties: properties(lc.Properties),
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// properties returns a copy of props, empty rather than nil.
func properties(props []tmx.Property) []tmx.Property {
	if props == nil {
		return []tmx.Property{}
	}
	return tmx.CloneProperties(props)
}
