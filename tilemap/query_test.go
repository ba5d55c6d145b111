package tilemap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adm87/tmx"
)

func TestRegion(t *testing.T) {
	r1 := Region{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	r2 := Region{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	r3 := Region{MinX: 5, MinY: -5, MaxX: 15, MaxY: 5}
	r4 := Region{MinX: 10, MinY: 0, MaxX: 12, MaxY: 10}

	require.True(t, r1.Equals(r2))
	require.False(t, r1.Equals(r3))

	require.Equal(t, int32(10), r3.Width())
	require.Equal(t, int32(10), r3.Height())

	require.True(t, r1.Overlaps(r3))
	require.False(t, r1.Overlaps(r4), "touching edges do not overlap")

	require.Equal(t, Region{MinX: 5, MinY: 0, MaxX: 10, MaxY: 5}, r1.Intersect(r3))
	require.True(t, r1.Intersect(r4).Empty())
	require.Equal(t, Region{MinX: 0, MinY: -5, MaxX: 15, MaxY: 10}, r1.Union(r3))
}

func TestTileLayerTileAt(t *testing.T) {
	m, err := Resolve(testMap(inlineLayer("ground", 2, 2, 1, 2, 3, 0)))
	require.NoError(t, err)
	layer := m.Layers[0].(*TileLayer)

	require.Equal(t, uint32(2), layer.TileAt(1, 0).GID)
	require.Equal(t, uint32(3), layer.TileAt(0, 1).GID)
	require.Nil(t, layer.TileAt(1, 1))
	require.Nil(t, layer.TileAt(2, 0))
	require.Nil(t, layer.TileAt(-1, 0))

	raw := testMap(chunkedLayer("chunks", chunk(-2, 0, 2, 2, 4, 5, 0, 6)))
	raw.Flags |= tmx.MapFlagInfinite
	m, err = Resolve(raw)
	require.NoError(t, err)
	chunked := m.Layers[0].(*TileLayer)

	require.Equal(t, uint32(4), chunked.TileAt(-2, 0).GID)
	require.Equal(t, uint32(6), chunked.TileAt(-1, 1).GID)
	require.Nil(t, chunked.TileAt(-2, 1))
	require.Nil(t, chunked.TileAt(0, 0))
}

func TestMapTiles(t *testing.T) {
	hidden := inlineLayer("hidden", 2, 2, 1, 1, 1, 1)
	hidden.Flags = 0

	raw := testMap(
		inlineLayer("ground", 2, 2, 1, 0, 0x80000003, 4),
		hidden,
		&tmx.ObjectGroup{LayerCommon: visible()},
		inlineLayer("top", 2, 2, 0, 0, 0, 2),
	)
	m, err := Resolve(raw)
	require.NoError(t, err)

	require.Len(t, m.TileLayers(), 3)

	it := m.Tiles(Region{MinX: -1, MinY: -1, MaxX: 5, MaxY: 5})
	require.Equal(t, 3, it.Len())
	require.True(t, it.HasNext())

	ground := it.Next()
	require.Len(t, ground, 3)
	require.Equal(t, Data{Col: 0, Row: 0, X: 0, Y: 0, Tile: ground[0].Tile, Layer: m.Layers[0].(*TileLayer)}, ground[0])
	require.Equal(t, uint32(1), ground[0].Tile.GID)
	require.Equal(t, int32(0), ground[1].Col)
	require.Equal(t, int32(1), ground[1].Row)
	require.Equal(t, 16.0, ground[1].Y)
	require.True(t, ground[1].Tile.Flip.Horizontal())
	require.Equal(t, 16.0, ground[2].X)

	require.Empty(t, it.Next(), "hidden layers yield an empty slice")

	top := it.Next()
	require.Len(t, top, 1)
	require.Equal(t, "top", top[0].Layer.Name)

	require.False(t, it.HasNext())
	require.Nil(t, it.Next())

	it.Reset()
	require.Equal(t, 0, it.Index())
	require.Len(t, it.Next(), 3)
}

func TestMapTilesSubRegion(t *testing.T) {
	m, err := Resolve(testMap(inlineLayer("ground", 2, 2, 1, 2, 3, 4)))
	require.NoError(t, err)

	it := m.Tiles(Region{MinX: 1, MinY: 0, MaxX: 2, MaxY: 2})
	tiles := it.Next()
	require.Len(t, tiles, 2)
	require.Equal(t, uint32(2), tiles[0].Tile.GID)
	require.Equal(t, uint32(4), tiles[1].Tile.GID)

	it = m.Tiles(Region{MinX: 5, MinY: 5, MaxX: 4, MaxY: 6})
	require.Empty(t, it.Next())
}

func TestMapTilesInfinite(t *testing.T) {
	raw := testMap(chunkedLayer("ground",
		chunk(0, 0, 2, 2, 1, 2, 3, 0),
		chunk(-2, 0, 2, 2, 4, 5, 0, 6),
	))
	raw.Flags |= tmx.MapFlagInfinite
	m, err := ResolveStream(context.Background(), raw)
	require.NoError(t, err)

	it := m.Tiles(Region{MinX: -1, MinY: 0, MaxX: 1, MaxY: 1})
	tiles := it.Next()
	require.Len(t, tiles, 2)

	require.Equal(t, uint32(1), tiles[0].Tile.GID)
	require.Equal(t, int32(0), tiles[0].Col)
	require.Equal(t, uint32(5), tiles[1].Tile.GID)
	require.Equal(t, int32(-1), tiles[1].Col)
	require.Equal(t, -16.0, tiles[1].X)
}

func TestMapTilesHiddenGroup(t *testing.T) {
	group := &tmx.Group{Layers: []tmx.Layer{inlineLayer("child", 1, 1, 1)}}
	m, err := Resolve(testMap(group, inlineLayer("after", 1, 1, 1)))
	require.NoError(t, err)

	it := m.Tiles(Region{MaxX: 1, MaxY: 1})
	require.Equal(t, 2, it.Len())
	require.Empty(t, it.Next())
	require.Len(t, it.Next(), 1)
}

func TestMapBounds(t *testing.T) {
	m, err := Resolve(testMap(inlineLayer("ground", 2, 2, 1, 2, 3, 4)))
	require.NoError(t, err)
	require.Equal(t, Region{MaxX: 2, MaxY: 2}, m.Bounds())

	raw := testMap(
		chunkedLayer("a", chunk(0, 0, 16, 16)),
		&tmx.Group{LayerCommon: visible(), Layers: []tmx.Layer{
			chunkedLayer("b", chunk(-16, 16, 16, 16)),
		}},
	)
	raw.Flags |= tmx.MapFlagInfinite
	m, err = Resolve(raw)
	require.NoError(t, err)
	require.Equal(t, Region{MinX: -16, MinY: 0, MaxX: 16, MaxY: 32}, m.Bounds())

	empty := testMap()
	empty.Flags |= tmx.MapFlagInfinite
	m, err = Resolve(empty)
	require.NoError(t, err)
	require.Equal(t, Region{}, m.Bounds())
}

func TestMapBoundsChunksWithoutInfiniteFlag(t *testing.T) {
	raw := testMap(&tmx.Group{LayerCommon: visible(), Layers: []tmx.Layer{
		chunkedLayer("ground", chunk(-2, 4, 2, 2, 1, 2, 3, 4)),
	}})
	require.False(t, raw.IsInfinite())

	m, err := Resolve(raw)
	require.NoError(t, err)
	require.True(t, m.Infinite)
	require.Equal(t, Region{MinX: -2, MinY: 4, MaxX: 0, MaxY: 6}, m.Bounds())

	it := m.Tiles(m.Bounds())
	require.Len(t, it.Next(), 4)

	finite, err := Resolve(testMap(inlineLayer("ground", 2, 2, 1, 2, 3, 4)))
	require.NoError(t, err)
	require.False(t, finite.Infinite)
}

func TestMapPixelRegion(t *testing.T) {
	m, err := Resolve(testMap())
	require.NoError(t, err)

	require.Equal(t, Region{MinX: -1, MinY: 0, MaxX: 3, MaxY: 2}, m.PixelRegion(-8, 0, 40, 17))
	require.Equal(t, Region{}, (&Map{}).PixelRegion(0, 0, 10, 10))
}

func TestTilesetSourceRect(t *testing.T) {
	ts := Tileset{TileWidth: 16, TileHeight: 16, Columns: 4, Margin: 1, Spacing: 2}

	x, y, w, h, ok := ts.SourceRect(5)
	require.True(t, ok)
	require.Equal(t, int32(19), x)
	require.Equal(t, int32(19), y)
	require.Equal(t, int32(16), w)
	require.Equal(t, int32(16), h)

	_, _, _, _, ok = (&Tileset{}).SourceRect(0)
	require.False(t, ok)

	ts.ObjectAlignment = tmx.ObjectAlignmentBottom
	ax, ay := ts.Anchor()
	require.Equal(t, float32(0.5), ax)
	require.Equal(t, float32(1), ay)
}

// Benchmarks

func BenchmarkMapTiles(b *testing.B) {
	m, err := Resolve(benchmarkMap(b, tmx.CompressionNone))
	if err != nil {
		b.Fatal(err)
	}
	region := Region{MinX: 10, MinY: 10, MaxX: 42, MaxY: 42}

	b.ReportAllocs()
	for b.Loop() {
		it := m.Tiles(region)
		for tiles := it.Next(); tiles != nil; tiles = it.Next() {
			_ = tiles
		}
	}
}
