package tilemap

import (
	"math"

	"github.com/adm87/tmx"
)

// ====================== Region =====================

// Region is a rectangle in tile coordinates. Max bounds are exclusive.
type Region struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

func (r Region) Equals(other Region) bool {
	return r.MinX == other.MinX &&
		r.MinY == other.MinY &&
		r.MaxX == other.MaxX &&
		r.MaxY == other.MaxY
}

func (r Region) Overlaps(other Region) bool {
	return r.MinX < other.MaxX && r.MaxX > other.MinX &&
		r.MinY < other.MaxY && r.MaxY > other.MinY
}

func (r Region) Width() int32 {
	return r.MaxX - r.MinX
}

func (r Region) Height() int32 {
	return r.MaxY - r.MinY
}

func (r Region) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Intersect returns the overlap of both regions. The result may be empty.
func (r Region) Intersect(other Region) Region {
	return Region{
		MinX: max(r.MinX, other.MinX),
		MinY: max(r.MinY, other.MinY),
		MaxX: min(r.MaxX, other.MaxX),
		MaxY: min(r.MaxY, other.MaxY),
	}
}

// Union returns the smallest region covering both.
func (r Region) Union(other Region) Region {
	return Region{
		MinX: min(r.MinX, other.MinX),
		MinY: min(r.MinY, other.MinY),
		MaxX: max(r.MaxX, other.MaxX),
		MaxY: max(r.MaxY, other.MaxY),
	}
}

// ====================== Data =====================

// Data is one placed tile returned by a region query.
type Data struct {
	Col, Row int32   // Tile coordinates
	X, Y     float64 // Pixel position from the map's projection
	Tile     *tmx.DecodedTile
	Layer    *TileLayer
}

// ====================== Iterator =====================

// Iterator walks the result of a region query one tile layer at a time.
// If a layer is not visible, Next returns an empty slice for it. When all
// layers have been returned, Next returns nil.
type Iterator struct {
	tiles     []Data
	positions []int
	index     int
}

func (it *Iterator) Next() []Data {
	if it.index >= len(it.positions)-1 {
		return nil
	}

	start := it.positions[it.index]
	end := it.positions[it.index+1]
	it.index++

	return it.tiles[start:end]
}

func (it *Iterator) HasNext() bool {
	return it.index < len(it.positions)-1
}

func (it *Iterator) Index() int {
	return it.index
}

// Len returns the number of layers in the iteration.
func (it *Iterator) Len() int {
	return max(len(it.positions)-1, 0)
}

func (it *Iterator) Reset() {
	it.index = 0
}

// ====================== Queries =====================

// TileLayers returns every tile layer in draw order, descending into groups.
func (m *Map) TileLayers() []*TileLayer {
	var layers []*TileLayer
	walkTileLayers(m.Layers, true, func(l *TileLayer, _ bool) {
		layers = append(layers, l)
	})
	return layers
}

// walkTileLayers visits tile layers depth-first. visible is false when the
// layer or any enclosing group is hidden.
func walkTileLayers(layers []Layer, visible bool, fn func(l *TileLayer, visible bool)) {
	for _, layer := range layers {
		switch l := layer.(type) {
		case *TileLayer:
			fn(l, visible && l.IsVisible())
		case *GroupLayer:
			walkTileLayers(l.Layers, visible && l.IsVisible(), fn)
		}
	}
}

// Tiles returns the non-empty tiles inside region for every tile layer, in
// draw order. Each call allocates its own result.
func (m *Map) Tiles(region Region) Iterator {
	ctx := m.Context()
	it := Iterator{
		tiles:     make([]Data, 0, 64),
		positions: make([]int, 0, 8),
	}

	walkTileLayers(m.Layers, true, func(l *TileLayer, visible bool) {
		it.positions = append(it.positions, len(it.tiles))
		if !visible || region.Empty() {
			return
		}

		if l.Infinite {
			for i := range l.Chunks {
				it.tiles = appendRegion(it.tiles, l, &l.Chunks[i], region.Intersect(l.Chunks[i].Region()), ctx)
			}
			return
		}
		bounds := Region{MaxX: l.Width, MaxY: l.Height}
		it.tiles = appendRegion(it.tiles, l, nil, region.Intersect(bounds), ctx)
	})

	it.positions = append(it.positions, len(it.tiles))
	return it
}

func appendRegion(dst []Data, layer *TileLayer, chunk *Chunk, region Region, ctx tmx.MapContext) []Data {
	if region.Empty() {
		return dst
	}

	for row := region.MinY; row < region.MaxY; row++ {
		for col := region.MinX; col < region.MaxX; col++ {
			var tile *tmx.DecodedTile
			if chunk != nil {
				tile = chunk.TileAt(col, row)
			} else {
				tile = layer.TileAt(col, row)
			}
			if tile == nil {
				continue
			}

			x, y := tmx.TileToPixel(col, row, ctx)
			dst = append(dst, Data{Col: col, Row: row, X: x, Y: y, Tile: tile, Layer: layer})
		}
	}
	return dst
}

// Bounds returns the tile-space extent of the map: the map size for finite
// maps, the union of all chunks for infinite ones.
func (m *Map) Bounds() Region {
	if !m.Infinite {
		return Region{MaxX: m.Width, MaxY: m.Height}
	}

	bounds := Region{MinX: math.MaxInt32, MinY: math.MaxInt32, MaxX: math.MinInt32, MaxY: math.MinInt32}
	found := false
	walkTileLayers(m.Layers, true, func(l *TileLayer, _ bool) {
		for i := range l.Chunks {
			bounds = bounds.Union(l.Chunks[i].Region())
			found = true
		}
	})
	if !found {
		return Region{}
	}
	return bounds
}

// PixelRegion converts a pixel rectangle to the tile region covering it on
// an orthogonal grid.
func (m *Map) PixelRegion(minX, minY, maxX, maxY float64) Region {
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return Region{}
	}
	return Region{
		MinX: int32(math.Floor(minX / float64(m.TileWidth))),
		MinY: int32(math.Floor(minY / float64(m.TileHeight))),
		MaxX: int32(math.Ceil(maxX / float64(m.TileWidth))),
		MaxY: int32(math.Ceil(maxY / float64(m.TileHeight))),
	}
}
