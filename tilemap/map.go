// Package tilemap resolves a parsed map document into a render-ready form:
// tilesets are looked up, tile payloads are decoded and every gid is
// attributed to its tileset.
package tilemap

import (
	"github.com/adm87/tmx"
)

// ====================== Map =====================

// Map is a fully resolved map. It is independent of the document it was
// built from and is not modified after Resolve returns.
type Map struct {
	Version      string
	TiledVersion string
	Class        string

	Orientation tmx.Orientation
	RenderOrder tmx.RenderOrder

	Width      int32
	Height     int32
	TileWidth  int32
	TileHeight int32
	Infinite   bool

	HexSideLength int32
	StaggerAxis   tmx.StaggerAxis
	StaggerIndex  tmx.StaggerIndex

	BackgroundColor string
	ParallaxOriginX float64
	ParallaxOriginY float64

	Properties []tmx.Property

	Tilesets []Tileset
	Layers   []Layer
}

// Context returns the placement context used by TileToPixel.
func (m *Map) Context() tmx.MapContext {
	return tmx.MapContext{
		Orientation:   m.Orientation,
		TileWidth:     m.TileWidth,
		TileHeight:    m.TileHeight,
		HexSideLength: m.HexSideLength,
		StaggerAxis:   m.StaggerAxis,
		StaggerIndex:  m.StaggerIndex,
	}
}

func (m *Map) TileToPixel(col, row int32) (x, y float64) {
	return tmx.TileToPixel(col, row, m.Context())
}

// Tileset returns the tileset a decoded tile belongs to, or nil if the
// tile's index is out of range.
func (m *Map) Tileset(tile *tmx.DecodedTile) *Tileset {
	if tile == nil || tile.TilesetIndex < 0 || tile.TilesetIndex >= len(m.Tilesets) {
		return nil
	}
	return &m.Tilesets[tile.TilesetIndex]
}

// LayerByName returns the first layer named name, searching groups depth-first.
func (m *Map) LayerByName(name string) Layer {
	return findLayer(m.Layers, name)
}

func findLayer(layers []Layer, name string) Layer {
	for _, l := range layers {
		if l.Base().Name == name {
			return l
		}
		if g, ok := l.(*GroupLayer); ok {
			if found := findLayer(g.Layers, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// ====================== Tileset =====================

// Tileset is a tileset with defaults applied and columns derived.
type Tileset struct {
	FirstGID uint32
	Name     string
	Class    string

	TileWidth  int32
	TileHeight int32
	TileCount  int32
	Columns    int32
	Margin     int32
	Spacing    int32

	Image      tmx.Image
	TileOffset tmx.Offset

	ObjectAlignment tmx.ObjectAlignment
	TileRenderSize  tmx.TileRenderSize
	FillMode        tmx.FillMode

	Grid            *tmx.Grid
	Transformations *tmx.Transformations
	WangSets        []tmx.WangSet
	Properties      []tmx.Property

	// Tiles holds only the tiles with explicit definitions, keyed by local id.
	Tiles map[uint32]*tmx.TileDefinition
}

// Tile returns the explicit definition for localID, or nil.
func (ts *Tileset) Tile(localID uint32) *tmx.TileDefinition {
	return ts.Tiles[localID]
}

// Anchor returns the normalized object anchor for the tileset's alignment.
func (ts *Tileset) Anchor() (ax, ay float32) {
	return tmx.ObjectAlignmentAnchor(ts.ObjectAlignment)
}

// SourceRect returns the pixel rectangle of localID within the tileset image.
// It reports false for image-collection tilesets (no columns).
func (ts *Tileset) SourceRect(localID uint32) (x, y, w, h int32, ok bool) {
	if ts.Columns <= 0 {
		return 0, 0, 0, 0, false
	}
	col := int32(localID % uint32(ts.Columns))
	row := int32(localID / uint32(ts.Columns))
	x = ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y = ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return x, y, ts.TileWidth, ts.TileHeight, true
}

// ====================== Layers =====================

// Layer is one of *TileLayer, *ImageLayer, *ObjectLayer or *GroupLayer.
type Layer interface {
	Base() *LayerBase
	isLayer()
}

// LayerBase holds the fields shared by every resolved layer, with defaults
// applied.
type LayerBase struct {
	ID    int32
	Name  string
	Class string

	Flags     tmx.LayerFlag
	Opacity   float64
	OffsetX   float64
	OffsetY   float64
	ParallaxX float64
	ParallaxY float64
	TintColor string

	Properties []tmx.Property
}

func (lb *LayerBase) Base() *LayerBase {
	return lb
}

func (lb *LayerBase) IsVisible() bool {
	return lb.Flags.Visible()
}

func (lb *LayerBase) IsLocked() bool {
	return lb.Flags.Locked()
}

// TileLayer is a resolved tile layer. Finite layers carry Tiles in row-major
// order; infinite layers carry Chunks and leave Tiles empty. Empty cells are
// nil.
type TileLayer struct {
	LayerBase

	Width    int32
	Height   int32
	Infinite bool

	Tiles  []*tmx.DecodedTile
	Chunks []Chunk
}

func (*TileLayer) isLayer() {}

// TileAt returns the tile at (col, row), or nil for empty or out-of-range cells.
func (l *TileLayer) TileAt(col, row int32) *tmx.DecodedTile {
	if l.Infinite {
		for i := range l.Chunks {
			if l.Chunks[i].Contains(col, row) {
				return l.Chunks[i].TileAt(col, row)
			}
		}
		return nil
	}

	if col < 0 || col >= l.Width || row < 0 || row >= l.Height {
		return nil
	}
	idx := int64(row)*int64(l.Width) + int64(col)
	if idx >= int64(len(l.Tiles)) {
		return nil
	}
	return l.Tiles[idx]
}

// Chunk is a rectangular block of an infinite tile layer, in tile coordinates.
type Chunk struct {
	X, Y          int32
	Width, Height int32

	Tiles []*tmx.DecodedTile
}

func (c *Chunk) Region() Region {
	return Region{MinX: c.X, MinY: c.Y, MaxX: c.X + c.Width, MaxY: c.Y + c.Height}
}

func (c *Chunk) Contains(col, row int32) bool {
	return col >= c.X && col < c.X+c.Width && row >= c.Y && row < c.Y+c.Height
}

// TileAt takes map tile coordinates.
func (c *Chunk) TileAt(col, row int32) *tmx.DecodedTile {
	if !c.Contains(col, row) {
		return nil
	}
	idx := int64(row-c.Y)*int64(c.Width) + int64(col-c.X)
	if idx >= int64(len(c.Tiles)) {
		return nil
	}
	return c.Tiles[idx]
}

type ImageLayer struct {
	LayerBase

	X, Y    float64
	Image   tmx.Image
	RepeatX bool
	RepeatY bool
}

func (*ImageLayer) isLayer() {}

type ObjectLayer struct {
	LayerBase

	Color     string
	DrawOrder tmx.DrawOrder
	Objects   []tmx.Object
}

func (*ObjectLayer) isLayer() {}

type GroupLayer struct {
	LayerBase

	Layers []Layer
}

func (*GroupLayer) isLayer() {}
