package tilemap

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"

	"github.com/adm87/tmx"
)

// Test helpers

func ptr[T any](v T) *T {
	return &v
}

func testTileset(name string, firstGID uint32) *tmx.Tileset {
	return &tmx.Tileset{
		FirstGID:   firstGID,
		Name:       name,
		TileWidth:  16,
		TileHeight: 16,
		TileCount:  64,
		Columns:    8,
	}
}

func visible() tmx.LayerCommon {
	return tmx.LayerCommon{Flags: tmx.LayerFlagVisible}
}

func inlineLayer(name string, width, height int32, gids ...uint32) *tmx.TileLayer {
	l := &tmx.TileLayer{
		LayerCommon: visible(),
		Width:       width,
		Height:      height,
		Data:        tmx.Data{Payload: tmx.Payload{GIDs: gids}},
	}
	l.Name = name
	return l
}

func chunkedLayer(name string, chunks ...tmx.Chunk) *tmx.TileLayer {
	l := &tmx.TileLayer{
		LayerCommon: visible(),
		Data:        tmx.Data{Chunks: chunks},
	}
	l.Name = name
	return l
}

func chunk(x, y, w, h int32, gids ...uint32) tmx.Chunk {
	return tmx.Chunk{X: x, Y: y, Width: w, Height: h, Payload: tmx.Payload{GIDs: gids}}
}

func testMap(layers ...tmx.Layer) *tmx.Map {
	return &tmx.Map{
		Orientation: tmx.OrientationOrthogonal,
		Width:       2,
		Height:      2,
		TileWidth:   16,
		TileHeight:  16,
		Tilesets:    []tmx.TilesetEntry{testTileset("terrain", 1)},
		Layers:      layers,
	}
}

func encodedPayload(t testing.TB, c tmx.Compression, gids []uint32) tmx.Payload {
	t.Helper()

	raw := make([]byte, 4*len(gids))
	for i, gid := range gids {
		binary.LittleEndian.PutUint32(raw[i*4:], gid)
	}

	var buf bytes.Buffer
	switch c {
	case tmx.CompressionGzip:
		w := gzip.NewWriter(&buf)
		_, err := w.Write(raw)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case tmx.CompressionZlib:
		w := zlib.NewWriter(&buf)
		_, err := w.Write(raw)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		buf.Write(raw)
	}
	return tmx.Payload{Text: base64.StdEncoding.EncodeToString(buf.Bytes())}
}

// encodeLayer rewrites every payload of a tile layer as base64 with the given compression.
func encodeLayer(t testing.TB, l *tmx.TileLayer, c tmx.Compression) *tmx.TileLayer {
	t.Helper()

	out := *l
	out.Data = tmx.Data{Encoding: tmx.EncodingBase64, Compression: c}
	if len(l.Data.Chunks) > 0 {
		out.Data.Chunks = make([]tmx.Chunk, len(l.Data.Chunks))
		for i, ch := range l.Data.Chunks {
			out.Data.Chunks[i] = tmx.Chunk{X: ch.X, Y: ch.Y, Width: ch.Width, Height: ch.Height, Payload: encodedPayload(t, c, ch.GIDs)}
		}
		return &out
	}
	out.Data.Payload = encodedPayload(t, c, l.Data.GIDs)
	return &out
}

// Unit Tests

func TestResolveNilMap(t *testing.T) {
	_, err := Resolve(nil)
	require.ErrorIs(t, err, ErrInvalidMap)

	_, err = ResolveStream(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidMap)
}

func TestResolveFiniteLayer(t *testing.T) {
	m, err := Resolve(testMap(inlineLayer("ground", 2, 2, 1, 2, 3, 0)))
	require.NoError(t, err)

	require.Len(t, m.Layers, 1)
	layer, ok := m.Layers[0].(*TileLayer)
	require.True(t, ok)
	require.False(t, layer.Infinite)
	require.Empty(t, layer.Chunks)
	require.Len(t, layer.Tiles, 4)

	require.Equal(t, &tmx.DecodedTile{GID: 1, LocalID: 0, TilesetIndex: 0}, layer.Tiles[0])
	require.Equal(t, &tmx.DecodedTile{GID: 2, LocalID: 1, TilesetIndex: 0}, layer.Tiles[1])
	require.Equal(t, &tmx.DecodedTile{GID: 3, LocalID: 2, TilesetIndex: 0}, layer.Tiles[2])
	require.Nil(t, layer.Tiles[3])
}

func TestResolveFiniteLayerLength(t *testing.T) {
	// The tile sequence mirrors the decoded payload even when it disagrees
	// with the declared size.
	m, err := Resolve(testMap(inlineLayer("short", 3, 3, 1, 2)))
	require.NoError(t, err)
	require.Len(t, m.Layers[0].(*TileLayer).Tiles, 2)
}

func TestResolveInfiniteLayer(t *testing.T) {
	raw := testMap(chunkedLayer("ground",
		chunk(0, 0, 2, 2, 1, 2, 3, 0),
		chunk(2, 0, 2, 2, 4, 5, 0, 6),
	))
	raw.Flags |= tmx.MapFlagInfinite

	m, err := Resolve(raw)
	require.NoError(t, err)
	require.True(t, m.Infinite)

	layer := m.Layers[0].(*TileLayer)
	require.True(t, layer.Infinite)
	require.Empty(t, layer.Tiles)
	require.Len(t, layer.Chunks, 2)

	first := layer.Chunks[0]
	require.Equal(t, int32(0), first.X)
	require.Equal(t, uint32(1), first.Tiles[0].GID)
	require.Nil(t, first.Tiles[3])

	second := layer.Chunks[1]
	require.Equal(t, int32(2), second.X)
	require.Equal(t, int32(2), second.Width)
	require.Equal(t, &tmx.DecodedTile{GID: 4, LocalID: 3}, second.Tiles[0])
	require.Nil(t, second.Tiles[2])
	require.Equal(t, &tmx.DecodedTile{GID: 6, LocalID: 5}, second.Tiles[3])
}

func TestResolveExternalTileset(t *testing.T) {
	raw := testMap(inlineLayer("ground", 2, 1, 1, 101))
	raw.Tilesets = []tmx.TilesetEntry{
		testTileset("terrain", 1),
		&tmx.TilesetRef{FirstGID: 100, Source: "../tilesets/chars.tsx"},
	}

	t.Run("missing", func(t *testing.T) {
		_, err := Resolve(raw)
		require.Truef(t, errors.Is(err, ErrMissingExternalTileset), "%v", err)

		var missing *MissingTilesetError
		require.True(t, errors.As(err, &missing))
		require.Equal(t, "../tilesets/chars.tsx", missing.Source)
		require.Contains(t, err.Error(), "../tilesets/chars.tsx")

		_, err = ResolveStream(context.Background(), raw)
		require.ErrorIs(t, err, ErrMissingExternalTileset)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := Resolve(raw, WithExternalTilesets(map[string]*tmx.Tileset{
			"chars.tsx": testTileset("chars", 0),
		}))
		require.ErrorIs(t, err, ErrMissingExternalTileset)
	})

	t.Run("provided", func(t *testing.T) {
		external := testTileset("chars", 0)
		external.Tiles = []tmx.TileDefinition{{ID: 1, Type: "hero"}}

		m, err := Resolve(raw, WithExternalTilesets(map[string]*tmx.Tileset{
			"../tilesets/chars.tsx": external,
		}))
		require.NoError(t, err)

		require.Len(t, m.Tilesets, 2)
		require.Equal(t, "chars", m.Tilesets[1].Name)
		require.Equal(t, uint32(100), m.Tilesets[1].FirstGID)
		require.Equal(t, uint32(0), external.FirstGID, "external definition must not be modified")

		tiles := m.Layers[0].(*TileLayer).Tiles
		require.Equal(t, &tmx.DecodedTile{GID: 101, LocalID: 1, TilesetIndex: 1}, tiles[1])

		ts := m.Tileset(tiles[1])
		require.NotNil(t, ts)
		require.Equal(t, "hero", ts.Tile(tiles[1].LocalID).Type)
	})
}

func TestResolveTilesetColumns(t *testing.T) {
	tests := []struct {
		name    string
		tileset tmx.Tileset
		want    int32
	}{
		{
			name:    "explicit",
			tileset: tmx.Tileset{Columns: 7, TileWidth: 16, Image: tmx.Image{Width: 1024}},
			want:    7,
		},
		{
			name:    "derived",
			tileset: tmx.Tileset{TileWidth: 256, Image: tmx.Image{Width: 1024}},
			want:    4,
		},
		{
			name:    "derived with margin and spacing",
			tileset: tmx.Tileset{TileWidth: 32, Margin: 2, Spacing: 1, Image: tmx.Image{Width: 69}},
			want:    2,
		},
		{
			name:    "no image",
			tileset: tmx.Tileset{TileWidth: 32},
			want:    0,
		},
		{
			name:    "no tile width",
			tileset: tmx.Tileset{Image: tmx.Image{Width: 128}},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tilesetColumns(&tt.tileset))
		})
	}
}

func TestResolveTilesetDefaults(t *testing.T) {
	raw := testTileset("terrain", 1)
	raw.Tiles = []tmx.TileDefinition{{ID: 5, Type: "water"}, {ID: 9}}

	ts := resolveTileset(raw)
	require.Equal(t, tmx.Offset{}, ts.TileOffset)
	require.Equal(t, tmx.ObjectAlignmentUnspecified, ts.ObjectAlignment)
	require.Equal(t, tmx.TileRenderSizeTile, ts.TileRenderSize)
	require.Equal(t, tmx.FillModeStretch, ts.FillMode)
	require.NotNil(t, ts.Properties)

	require.Len(t, ts.Tiles, 2)
	require.Equal(t, "water", ts.Tile(5).Type)
	require.Nil(t, ts.Tile(6))

	// The lookup table does not alias the input.
	raw.Tiles[0].Type = "lava"
	require.Equal(t, "water", ts.Tile(5).Type)

	raw.TileOffset = &tmx.Offset{X: 3, Y: -2}
	require.Equal(t, tmx.Offset{X: 3, Y: -2}, resolveTileset(raw).TileOffset)
}

func TestResolveGIDLookup(t *testing.T) {
	tilesets := []Tileset{{Name: "a", FirstGID: 1}, {Name: "b", FirstGID: 10}}

	tests := []struct {
		name string
		raw  uint32
		want *tmx.DecodedTile
	}{
		{name: "empty", raw: 0, want: nil},
		{name: "first tileset", raw: 9, want: &tmx.DecodedTile{GID: 9, LocalID: 8, TilesetIndex: 0}},
		{name: "boundary", raw: 10, want: &tmx.DecodedTile{GID: 10, LocalID: 0, TilesetIndex: 1}},
		{
			name: "flipped",
			raw:  tmx.FlipHorizontalFlag | 12,
			want: &tmx.DecodedTile{GID: 12, LocalID: 2, TilesetIndex: 1, Flip: tmx.FlipHorizontal},
		},
	}

	tr := tileResolver{tilesets: tilesets}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles, fallbacks, err := tr.resolve([]uint32{tt.raw})
			require.NoError(t, err)
			require.Zero(t, fallbacks)
			require.Equal(t, tt.want, tiles[0])
		})
	}
}

func TestResolveGIDLookupUnsorted(t *testing.T) {
	// The highest index with firstgid <= gid wins, even out of order.
	tr := tileResolver{tilesets: []Tileset{{FirstGID: 10}, {FirstGID: 1}}}
	tiles, _, err := tr.resolve([]uint32{12})
	require.NoError(t, err)
	require.Equal(t, &tmx.DecodedTile{GID: 12, LocalID: 11, TilesetIndex: 1}, tiles[0])
}

func TestResolveGIDFallback(t *testing.T) {
	raw := testMap(inlineLayer("ground", 2, 1, 3, 7))
	raw.Tilesets = []tmx.TilesetEntry{testTileset("late", 5)}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	m, err := Resolve(raw, WithLogger(logger))
	require.NoError(t, err)

	tiles := m.Layers[0].(*TileLayer).Tiles
	require.Equal(t, &tmx.DecodedTile{GID: 3, LocalID: 0, TilesetIndex: 0}, tiles[0])
	require.Equal(t, &tmx.DecodedTile{GID: 7, LocalID: 2, TilesetIndex: 0}, tiles[1])

	require.Contains(t, logs.String(), "level=WARN")
	require.Contains(t, logs.String(), "layer=ground")
	require.Contains(t, logs.String(), "count=1")

	t.Run("strict", func(t *testing.T) {
		_, err := Resolve(raw, WithStrictGIDs())
		require.Truef(t, errors.Is(err, ErrTilesetNotFound), "%v", err)
		require.Contains(t, err.Error(), "ground")

		chunked := testMap(chunkedLayer("chunks", chunk(0, 0, 1, 1, 2)))
		chunked.Tilesets = raw.Tilesets
		_, err = ResolveStream(context.Background(), chunked, WithStrictGIDs())
		require.ErrorIs(t, err, ErrTilesetNotFound)
	})

	t.Run("no tilesets", func(t *testing.T) {
		bare := testMap(inlineLayer("ground", 1, 1, 4))
		bare.Tilesets = nil

		m, err := Resolve(bare)
		require.NoError(t, err)
		tile := m.Layers[0].(*TileLayer).Tiles[0]
		require.Equal(t, &tmx.DecodedTile{GID: 4}, tile)
		require.Nil(t, m.Tileset(tile))
	})
}

func TestResolveLayerDefaults(t *testing.T) {
	bare := &tmx.ImageLayer{LayerCommon: tmx.LayerCommon{ID: 2, Name: "sky", Flags: tmx.LayerFlagVisible}, Image: tmx.Image{Source: "sky.png", Width: 64, Height: 32, Trans: "ff00ff"}}
	bare.X = 4

	explicit := &tmx.ObjectGroup{
		LayerCommon: tmx.LayerCommon{
			ID:        3,
			Name:      "objects",
			Class:     "spawns",
			Flags:     tmx.LayerFlagLocked,
			Opacity:   ptr(0.25),
			OffsetX:   ptr(3.0),
			OffsetY:   ptr(-2.0),
			ParallaxX: ptr(0.5),
			ParallaxY: ptr(2.0),
			TintColor: "#80ff0000",
		},
	}

	repeating := &tmx.ImageLayer{LayerCommon: visible(), RepeatX: ptr(true), RepeatY: ptr(false)}

	m, err := Resolve(testMap(bare, explicit, repeating))
	require.NoError(t, err)
	require.Len(t, m.Layers, 3)

	sky := m.Layers[0].(*ImageLayer)
	want := &ImageLayer{
		LayerBase: LayerBase{
			ID:         2,
			Name:       "sky",
			Flags:      tmx.LayerFlagVisible,
			Opacity:    1,
			ParallaxX:  1,
			ParallaxY:  1,
			Properties: []tmx.Property{},
		},
		X:     4,
		Image: tmx.Image{Source: "sky.png", Width: 64, Height: 32, Trans: "ff00ff"},
	}
	if diff := cmp.Diff(want, sky); diff != "" {
		t.Errorf("image layer mismatch (-want +got):\n%s", diff)
	}

	objects := m.Layers[1].(*ObjectLayer)
	require.Equal(t, LayerBase{
		ID:         3,
		Name:       "objects",
		Class:      "spawns",
		Flags:      tmx.LayerFlagLocked,
		Opacity:    0.25,
		OffsetX:    3,
		OffsetY:    -2,
		ParallaxX:  0.5,
		ParallaxY:  2,
		TintColor:  "#80ff0000",
		Properties: []tmx.Property{},
	}, objects.LayerBase)
	require.True(t, objects.IsLocked())
	require.False(t, objects.IsVisible())
	require.Equal(t, tmx.DrawOrderTopDown, objects.DrawOrder)
	require.NotNil(t, objects.Objects)

	rep := m.Layers[2].(*ImageLayer)
	require.True(t, rep.RepeatX)
	require.False(t, rep.RepeatY)
}

func TestResolveGroups(t *testing.T) {
	inner := &tmx.Group{LayerCommon: visible(), Layers: []tmx.Layer{inlineLayer("deep", 1, 1, 2)}}
	inner.Name = "inner"
	outer := &tmx.Group{LayerCommon: tmx.LayerCommon{Name: "outer"}, Layers: []tmx.Layer{
		inlineLayer("first", 1, 1, 1),
		inner,
		&tmx.ObjectGroup{LayerCommon: tmx.LayerCommon{Name: "last"}},
	}}

	m, err := Resolve(testMap(outer))
	require.NoError(t, err)

	group := m.Layers[0].(*GroupLayer)
	require.False(t, group.IsVisible())
	require.Len(t, group.Layers, 3)
	require.Equal(t, "first", group.Layers[0].Base().Name)
	require.Equal(t, "inner", group.Layers[1].Base().Name)
	require.Equal(t, "last", group.Layers[2].Base().Name)

	deep, ok := m.LayerByName("deep").(*TileLayer)
	require.True(t, ok)
	require.Equal(t, uint32(2), deep.Tiles[0].GID)
	require.Nil(t, m.LayerByName("nope"))
}

func TestResolveDoesNotModifyInput(t *testing.T) {
	raw := testMap(inlineLayer("ground", 2, 2, 1, 2, 3, 0))
	before := testMap(inlineLayer("ground", 2, 2, 1, 2, 3, 0))

	_, err := Resolve(raw)
	require.NoError(t, err)
	_, err = ResolveStream(context.Background(), raw)
	require.NoError(t, err)

	if diff := cmp.Diff(before, raw); diff != "" {
		t.Errorf("input modified (-before +after):\n%s", diff)
	}
}

// richMap builds a document whose every nested slice and pointer is populated.
func richMap() *tmx.Map {
	ts := testTileset("terrain", 1)
	ts.Grid = &tmx.Grid{Width: 16, Height: 16}
	ts.Transformations = &tmx.Transformations{HFlip: true}
	ts.WangSets = []tmx.WangSet{{
		Name:      "paths",
		Colors:    []tmx.WangColor{{Name: "dirt", Properties: []tmx.Property{{Name: "k", Value: "before"}}}},
		WangTiles: []tmx.WangTile{{TileID: 1, WangID: []int32{1, 0, 1, 0, 1, 0, 1, 0}}},
	}}
	ts.Properties = []tmx.Property{{Name: "k", Value: "before"}}
	ts.Tiles = []tmx.TileDefinition{{
		ID:          2,
		Image:       &tmx.Image{Source: "before.png"},
		Animation:   []tmx.Frame{{TileID: 2, Duration: 100}},
		ObjectGroup: &tmx.ObjectGroup{Objects: []tmx.Object{{Name: "hitbox"}}},
		Properties:  []tmx.Property{{Name: "k", Value: "before"}},
	}}

	ground := inlineLayer("ground", 2, 2, 1, 2, 3, 0)
	ground.Opacity = ptr(0.5)
	ground.Properties = []tmx.Property{{Name: "k", Value: "before", Properties: []tmx.Property{{Name: "member", Value: "before"}}}}

	objects := &tmx.ObjectGroup{LayerCommon: visible(), Objects: []tmx.Object{{
		Name:       "before",
		Polygon:    []tmx.Point{{X: 1, Y: 1}},
		Text:       &tmx.Text{Text: "before"},
		Properties: []tmx.Property{{Name: "k", Value: "before"}},
	}}}

	m := testMap(ground, objects)
	m.Tilesets = []tmx.TilesetEntry{ts}
	m.Properties = []tmx.Property{{Name: "k", Value: "before"}}
	return m
}

func TestResolveIndependentOfInput(t *testing.T) {
	resolvers := map[string]func(*tmx.Map) (*Map, error){
		"blocking": func(m *tmx.Map) (*Map, error) { return Resolve(m) },
		"stream":   func(m *tmx.Map) (*Map, error) { return ResolveStream(context.Background(), m) },
	}

	for name, resolve := range resolvers {
		t.Run(name, func(t *testing.T) {
			want, err := resolve(richMap())
			require.NoError(t, err)

			raw := richMap()
			got, err := resolve(raw)
			require.NoError(t, err)

			raw.Properties[0].Value = "after"

			ts := raw.Tilesets[0].(*tmx.Tileset)
			ts.Grid.Width = 99
			ts.Transformations.HFlip = false
			ts.WangSets[0].Colors[0].Properties[0].Value = "after"
			ts.WangSets[0].WangTiles[0].WangID[0] = 9
			ts.Properties[0].Value = "after"
			ts.Tiles[0].Image.Source = "after.png"
			ts.Tiles[0].Animation[0].Duration = 999
			ts.Tiles[0].ObjectGroup.Objects[0].Name = "after"
			ts.Tiles[0].Properties[0].Value = "after"

			ground := raw.Layers[0].(*tmx.TileLayer)
			*ground.Opacity = 0.1
			ground.Properties[0].Value = "after"
			ground.Properties[0].Properties[0].Value = "after"

			obj := &raw.Layers[1].(*tmx.ObjectGroup).Objects[0]
			obj.Name = "after"
			obj.Polygon[0].X = 99
			obj.Text.Text = "after"
			obj.Properties[0].Value = "after"

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("resolved map changed with its input (-want +got):\n%s", diff)
			}
			require.Equal(t, int32(100), got.Tilesets[0].Tile(2).Animation[0].Duration)
			require.Equal(t, "before", got.Layers[1].(*ObjectLayer).Objects[0].Name)
		})
	}
}

func TestResolveBlockingRejectsCompressed(t *testing.T) {
	for _, c := range []tmx.Compression{tmx.CompressionGzip, tmx.CompressionZlib} {
		t.Run(c.String(), func(t *testing.T) {
			layer := encodeLayer(t, inlineLayer("ground", 2, 2, 1, 2, 3, 0), c)
			m, err := Resolve(testMap(layer))
			require.Nil(t, m)
			require.Truef(t, errors.Is(err, tmx.ErrUnsupportedCompression), "%v", err)
			require.Truef(t, errors.Is(err, tmx.ErrStreamRequired), "%v", err)
			require.Contains(t, err.Error(), "ground")
		})
	}
}

func TestResolveStreamCompressed(t *testing.T) {
	finite := inlineLayer("finite", 2, 2, 1, 0x80000002, 3, 0)
	infinite := chunkedLayer("infinite", chunk(0, 0, 2, 2, 1, 2, 3, 0), chunk(-2, 0, 2, 2, 4, 5, 0, 6))

	want, err := Resolve(testMap(finite, infinite))
	require.NoError(t, err)

	for _, c := range []tmx.Compression{tmx.CompressionGzip, tmx.CompressionZlib} {
		t.Run(c.String(), func(t *testing.T) {
			raw := testMap(encodeLayer(t, finite, c), encodeLayer(t, infinite, c))
			require.True(t, raw.Compressed())

			got, err := ResolveStream(context.Background(), raw)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ResolveStream() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveStreamZstd(t *testing.T) {
	layer := inlineLayer("ground", 1, 1, 1)
	layer.Data = tmx.Data{Encoding: tmx.EncodingBase64, Compression: tmx.CompressionZstd, Payload: tmx.Payload{Text: "AQAAAA=="}}

	_, err := ResolveStream(context.Background(), testMap(layer))
	require.Truef(t, errors.Is(err, tmx.ErrUnsupportedCompression), "%v", err)
	require.False(t, errors.Is(err, tmx.ErrStreamRequired))
}

func TestResolveModesEquivalent(t *testing.T) {
	csv := inlineLayer("csv", 2, 2)
	csv.Data = tmx.Data{Encoding: tmx.EncodingCSV, Payload: tmx.Payload{Text: "1,2,\n3,0"}}

	b64 := encodeLayer(t, inlineLayer("base64", 2, 2, 0x40000004, 0, 9, 10), tmx.CompressionNone)

	group := &tmx.Group{LayerCommon: visible(), Layers: []tmx.Layer{
		chunkedLayer("chunks", chunk(0, 0, 1, 2, 1, 0), chunk(1, 0, 1, 2, 0, 2), chunk(2, 0, 1, 2, 3, 3)),
		&tmx.ImageLayer{LayerCommon: visible(), Image: tmx.Image{Source: "bg.png"}},
	}}
	group.Name = "group"

	objects := &tmx.ObjectGroup{LayerCommon: visible(), DrawOrder: tmx.DrawOrderIndex, Objects: []tmx.Object{{ID: 1, Name: "spawn", X: 3, Y: 4}}}

	raw := testMap(csv, b64, group, objects)
	raw.Tilesets = append(raw.Tilesets, testTileset("second", 9))
	raw.Properties = []tmx.Property{{Name: "k", Type: "string", Value: "v"}}

	blocking, err := Resolve(raw)
	require.NoError(t, err)
	streaming, err := ResolveStream(context.Background(), raw)
	require.NoError(t, err)

	if diff := cmp.Diff(blocking, streaming); diff != "" {
		t.Errorf("modes differ (-blocking +streaming):\n%s", diff)
	}
}

func TestResolveStreamOrder(t *testing.T) {
	const n = 64

	layers := make([]tmx.Layer, n)
	chunks := make([]tmx.Chunk, n)
	for i := range n {
		layers[i] = encodeLayer(t, inlineLayer(fmt.Sprintf("layer-%02d", i), 1, 1, uint32(i+1)), tmx.CompressionGzip)
		chunks[i] = chunk(int32(i), 0, 1, 1, uint32(i+1))
	}
	layers = append(layers, encodeLayer(t, chunkedLayer("chunks", chunks...), tmx.CompressionZlib))

	m, err := ResolveStream(context.Background(), testMap(layers...))
	require.NoError(t, err)
	require.Len(t, m.Layers, n+1)

	for i := range n {
		layer := m.Layers[i].(*TileLayer)
		require.Equal(t, fmt.Sprintf("layer-%02d", i), layer.Name)
		require.Equal(t, uint32(i+1), layer.Tiles[0].GID)
	}

	chunked := m.Layers[n].(*TileLayer)
	for i := range n {
		require.Equal(t, int32(i), chunked.Chunks[i].X)
		require.Equal(t, uint32(i+1), chunked.Chunks[i].Tiles[0].GID)
	}
}

func TestResolveStreamCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	layer := encodeLayer(t, inlineLayer("ground", 1, 1, 1), tmx.CompressionGzip)
	m, err := ResolveStream(ctx, testMap(layer))
	require.Nil(t, m)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolveMapMetadata(t *testing.T) {
	raw := testMap()
	raw.Version = "1.10"
	raw.TiledVersion = "1.10.2"
	raw.Orientation = tmx.OrientationHexagonal
	raw.RenderOrder = tmx.RenderOrderLeftUp
	raw.HexSideLength = 8
	raw.StaggerAxis = tmx.StaggerAxisX
	raw.StaggerIndex = tmx.StaggerIndexEven
	raw.BackgroundColor = "#202020"
	raw.ParallaxOriginX = 5

	m, err := Resolve(raw)
	require.NoError(t, err)

	require.Equal(t, "1.10", m.Version)
	require.Equal(t, "1.10.2", m.TiledVersion)
	require.Equal(t, tmx.RenderOrderLeftUp, m.RenderOrder)
	require.Equal(t, "#202020", m.BackgroundColor)
	require.Equal(t, 5.0, m.ParallaxOriginX)
	require.NotNil(t, m.Properties)
	require.Empty(t, m.Layers)
	require.Equal(t, raw.Context(), m.Context())

	x, y := m.TileToPixel(1, 0)
	require.Equal(t, 12.0, x)
	require.Equal(t, 0.0, y)

	x, y = m.TileToPixel(0, 0)
	require.Equal(t, 0.0, x)
	require.Equal(t, 8.0, y)
}

// Benchmarks

func benchmarkMap(b *testing.B, c tmx.Compression) *tmx.Map {
	gids := make([]uint32, 64*64)
	for i := range gids {
		gids[i] = uint32(i%10 + 1)
	}
	layers := make([]tmx.Layer, 4)
	for i := range layers {
		layers[i] = encodeLayer(b, inlineLayer(fmt.Sprintf("layer-%d", i), 64, 64, gids...), c)
	}
	return testMap(layers...)
}

func BenchmarkResolve(b *testing.B) {
	raw := benchmarkMap(b, tmx.CompressionNone)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Resolve(raw); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolveStreamGzip(b *testing.B) {
	raw := benchmarkMap(b, tmx.CompressionGzip)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := ResolveStream(context.Background(), raw); err != nil {
			b.Fatal(err)
		}
	}
}
