package tmx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ======================================================
// Map - Tiled Map (TMX / JSON)
// ======================================================

// Map is the as-parsed map document. It is treated as read-only by the
// resolver in the tilemap package.
type Map struct {
	Version      string `xml:"version,attr" json:"version"`
	TiledVersion string `xml:"tiledversion,attr,omitempty" json:"tiledversion,omitempty"`
	Class        string `xml:"class,attr,omitempty" json:"class,omitempty"`

	Width         int32 `xml:"width,attr" json:"width"`
	Height        int32 `xml:"height,attr" json:"height"`
	TileWidth     int32 `xml:"tilewidth,attr" json:"tilewidth"`
	TileHeight    int32 `xml:"tileheight,attr" json:"tileheight"`
	HexSideLength int32 `xml:"hexsidelength,attr,omitempty" json:"hexsidelength,omitempty"`

	Flags        MapFlag      `xml:"-" json:"-"`
	Orientation  Orientation  `xml:"orientation,attr" json:"orientation"`
	RenderOrder  RenderOrder  `xml:"renderorder,attr,omitempty" json:"renderorder,omitempty"`
	StaggerAxis  StaggerAxis  `xml:"staggeraxis,attr,omitempty" json:"staggeraxis,omitempty"`
	StaggerIndex StaggerIndex `xml:"staggerindex,attr,omitempty" json:"staggerindex,omitempty"`

	BackgroundColor  string  `xml:"backgroundcolor,attr,omitempty" json:"backgroundcolor,omitempty"`
	ParallaxOriginX  float64 `xml:"parallaxoriginx,attr,omitempty" json:"parallaxoriginx,omitempty"`
	ParallaxOriginY  float64 `xml:"parallaxoriginy,attr,omitempty" json:"parallaxoriginy,omitempty"`
	CompressionLevel int32   `xml:"compressionlevel,attr,omitempty" json:"compressionlevel,omitempty"`

	NextLayerID  int32 `xml:"nextlayerid,attr" json:"nextlayerid"`
	NextObjectID int32 `xml:"nextobjectid,attr" json:"nextobjectid"`

	Tilesets []TilesetEntry `xml:"-" json:"-"`
	Layers   []Layer        `xml:"-" json:"-"`

	Properties []Property `xml:"properties>property,omitempty" json:"properties,omitempty"`
}

func (m *Map) IsInfinite() bool {
	return m.Flags&MapFlagInfinite != 0
}

// Compressed reports whether any tile payload in the layer tree needs the
// streaming decoder.
func (m *Map) Compressed() bool {
	return layersCompressed(m.Layers)
}

func layersCompressed(layers []Layer) bool {
	for _, l := range layers {
		switch layer := l.(type) {
		case *TileLayer:
			if layer.Data.Compressed() {
				return true
			}
		case *Group:
			if layersCompressed(layer.Layers) {
				return true
			}
		}
	}
	return false
}

func (m *Map) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if start.Name.Local != "map" {
		return fmt.Errorf("expected <map> element, got <%s>", start.Name.Local)
	}

	type mapAlias Map
	aux := struct {
		*mapAlias
		Infinite    bool             `xml:"infinite,attr"`
		TilesetEls  []tilesetElement `xml:"tileset"`
		ChildLayers []layerElement   `xml:",any"`
	}{
		mapAlias: (*mapAlias)(m),
	}

	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}

	if aux.Infinite {
		m.Flags |= MapFlagInfinite
	}
	if m.Version == "" {
		m.Version = "1.0"
	}

	m.Tilesets = make([]TilesetEntry, 0, len(aux.TilesetEls))
	for i := range aux.TilesetEls {
		m.Tilesets = append(m.Tilesets, aux.TilesetEls[i].entry)
	}
	m.Layers = collectLayers(aux.ChildLayers)
	return nil
}

// ======================================================
// Tileset entries
// ======================================================

// TilesetEntry is either an inline *Tileset or an unresolved *TilesetRef.
type TilesetEntry interface {
	EntryFirstGID() uint32
	isTilesetEntry()
}

// TilesetRef points at an external tileset document. It carries no tile data.
type TilesetRef struct {
	FirstGID uint32 `xml:"firstgid,attr" json:"firstgid"`
	Source   string `xml:"source,attr" json:"source"`
}

func (r *TilesetRef) EntryFirstGID() uint32 { return r.FirstGID }
func (r *TilesetRef) isTilesetEntry()       {}

func (ts *Tileset) EntryFirstGID() uint32 { return ts.FirstGID }
func (ts *Tileset) isTilesetEntry()       {}

type tilesetElement struct {
	entry TilesetEntry
}

func (te *tilesetElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "source" && attr.Value != "" {
			ref := &TilesetRef{}
			if err := d.DecodeElement(ref, &start); err != nil {
				return err
			}
			te.entry = ref
			return nil
		}
	}

	ts := &Tileset{}
	if err := d.DecodeElement(ts, &start); err != nil {
		return err
	}
	te.entry = ts
	return nil
}

// ======================================================
// Tileset - inline tileset or Tiled Tileset XML (TSX)
// ======================================================

type Tileset struct {
	FirstGID     uint32 `xml:"firstgid,attr,omitempty" json:"firstgid,omitempty"`
	Name         string `xml:"name,attr" json:"name"`
	Class        string `xml:"class,attr,omitempty" json:"class,omitempty"`
	Version      string `xml:"version,attr,omitempty" json:"version,omitempty"`
	TiledVersion string `xml:"tiledversion,attr,omitempty" json:"tiledversion,omitempty"`

	TileWidth  int32 `xml:"tilewidth,attr" json:"tilewidth"`
	TileHeight int32 `xml:"tileheight,attr" json:"tileheight"`
	TileCount  int32 `xml:"tilecount,attr" json:"tilecount"`
	Columns    int32 `xml:"columns,attr" json:"columns"`
	Margin     int32 `xml:"margin,attr,omitempty" json:"margin,omitempty"`
	Spacing    int32 `xml:"spacing,attr,omitempty" json:"spacing,omitempty"`

	BackgroundColor string `xml:"backgroundcolor,attr,omitempty" json:"backgroundcolor,omitempty"`

	Image      Image   `xml:"image,omitempty" json:"-"`
	TileOffset *Offset `xml:"tileoffset,omitempty" json:"tileoffset,omitempty"`

	ObjectAlignment ObjectAlignment `xml:"objectalignment,attr,omitempty" json:"objectalignment,omitempty"`
	TileRenderSize  TileRenderSize  `xml:"tilerendersize,attr,omitempty" json:"tilerendersize,omitempty"`
	FillMode        FillMode        `xml:"fillmode,attr,omitempty" json:"fillmode,omitempty"`

	Grid            *Grid            `xml:"grid,omitempty" json:"grid,omitempty"`
	Transformations *Transformations `xml:"transformations,omitempty" json:"transformations,omitempty"`
	WangSets        []WangSet        `xml:"wangsets>wangset,omitempty" json:"wangsets,omitempty"`

	Tiles      []TileDefinition `xml:"tile,omitempty" json:"tiles,omitempty"`
	Properties []Property       `xml:"properties>property,omitempty" json:"properties,omitempty"`
}

// ======================================================
// TileDefinition
// ======================================================

// TileDefinition holds the per-tile overrides of a tileset entry.
type TileDefinition struct {
	ID          uint32  `xml:"id,attr" json:"id"`
	Type        string  `xml:"type,attr,omitempty" json:"type,omitempty"`
	Probability float64 `xml:"probability,attr,omitempty" json:"probability,omitempty"`

	// Sub-rectangle of the tile image (Tiled 1.9+).
	X      int32 `xml:"x,attr,omitempty" json:"x,omitempty"`
	Y      int32 `xml:"y,attr,omitempty" json:"y,omitempty"`
	Width  int32 `xml:"width,attr,omitempty" json:"width,omitempty"`
	Height int32 `xml:"height,attr,omitempty" json:"height,omitempty"`

	Image       *Image       `xml:"image,omitempty" json:"-"`
	Animation   []Frame      `xml:"animation>frame,omitempty" json:"animation,omitempty"`
	ObjectGroup *ObjectGroup `xml:"objectgroup,omitempty" json:"-"`

	Properties []Property `xml:"properties>property,omitempty" json:"properties,omitempty"`
}

func (td *TileDefinition) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type tileAlias TileDefinition
	aux := struct {
		*tileAlias
		Class string `xml:"class,attr"`
	}{
		tileAlias: (*tileAlias)(td),
	}

	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}
	if td.Type == "" {
		td.Type = aux.Class
	}
	return nil
}

type Frame struct {
	TileID   uint32 `xml:"tileid,attr" json:"tileid"`
	Duration int32  `xml:"duration,attr" json:"duration"`
}

type Grid struct {
	Orientation GridOrientation `xml:"orientation,attr" json:"orientation"`
	Width       int32           `xml:"width,attr" json:"width"`
	Height      int32           `xml:"height,attr" json:"height"`
}

type Transformations struct {
	HFlip               bool `xml:"hflip,attr" json:"hflip"`
	VFlip               bool `xml:"vflip,attr" json:"vflip"`
	Rotate              bool `xml:"rotate,attr" json:"rotate"`
	PreferUntransformed bool `xml:"preferuntransformed,attr" json:"preferuntransformed"`
}

// ======================================================
// Wang sets
// ======================================================

type WangSet struct {
	Name      string      `xml:"name,attr" json:"name"`
	Class     string      `xml:"class,attr,omitempty" json:"class,omitempty"`
	Type      WangSetType `xml:"type,attr" json:"type"`
	Tile      int32       `xml:"tile,attr" json:"tile"`
	Colors    []WangColor `xml:"wangcolor" json:"colors"`
	WangTiles []WangTile  `xml:"wangtile" json:"wangtiles"`

	Properties []Property `xml:"properties>property,omitempty" json:"properties,omitempty"`
}

type WangColor struct {
	Name        string  `xml:"name,attr" json:"name"`
	Class       string  `xml:"class,attr,omitempty" json:"class,omitempty"`
	Color       string  `xml:"color,attr" json:"color"`
	Probability float64 `xml:"probability,attr" json:"probability"`
	Tile        int32   `xml:"tile,attr" json:"tile"`

	Properties []Property `xml:"properties>property,omitempty" json:"properties,omitempty"`
}

type WangTile struct {
	TileID uint32  `xml:"tileid,attr" json:"tileid"`
	WangID []int32 `xml:"-" json:"wangid"`
}

func (wt *WangTile) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type wangTileAlias WangTile
	aux := struct {
		*wangTileAlias
		WangID string `xml:"wangid,attr"`
	}{
		wangTileAlias: (*wangTileAlias)(wt),
	}

	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}

	wt.WangID = wt.WangID[:0]
	for s := range strings.SplitSeq(aux.WangID, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return err
		}
		wt.WangID = append(wt.WangID, int32(v))
	}
	return nil
}

// ======================================================
// Layers
// ======================================================

// Layer is one of *TileLayer, *ImageLayer, *ObjectGroup or *Group.
type Layer interface {
	Common() *LayerCommon
	isLayer()
}

// LayerCommon holds the fields every layer kind shares. Optional fields are
// pointers so the resolver can tell "absent" from an explicit value.
type LayerCommon struct {
	ID    int32  `xml:"id,attr" json:"id"`
	Name  string `xml:"name,attr" json:"name"`
	Class string `xml:"class,attr,omitempty" json:"class,omitempty"`

	X float64 `xml:"x,attr,omitempty" json:"x"`
	Y float64 `xml:"y,attr,omitempty" json:"y"`

	Flags LayerFlag `xml:"-" json:"-"`

	Opacity   *float64 `xml:"opacity,attr,omitempty" json:"opacity,omitempty"`
	OffsetX   *float64 `xml:"offsetx,attr,omitempty" json:"offsetx,omitempty"`
	OffsetY   *float64 `xml:"offsety,attr,omitempty" json:"offsety,omitempty"`
	ParallaxX *float64 `xml:"parallaxx,attr,omitempty" json:"parallaxx,omitempty"`
	ParallaxY *float64 `xml:"parallaxy,attr,omitempty" json:"parallaxy,omitempty"`
	TintColor string   `xml:"tintcolor,attr,omitempty" json:"tintcolor,omitempty"`

	Properties []Property `xml:"properties>property,omitempty" json:"properties,omitempty"`
}

func (lc *LayerCommon) Common() *LayerCommon {
	return lc
}

func (lc *LayerCommon) IsLocked() bool {
	return lc.Flags.Locked()
}

func (lc *LayerCommon) IsVisible() bool {
	return lc.Flags.Visible()
}

func (lc *LayerCommon) unmarshalFlags(start xml.StartElement) {
	lc.Flags |= LayerFlagVisible

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "visible":
			if attr.Value == "0" || attr.Value == "false" {
				lc.Flags &^= LayerFlagVisible
			} else {
				lc.Flags |= LayerFlagVisible
			}
		case "locked":
			if attr.Value == "1" || attr.Value == "true" {
				lc.Flags |= LayerFlagLocked
			} else {
				lc.Flags &^= LayerFlagLocked
			}
		}
	}
}

// layerElement decodes any layer-like child element, keeping document order.
type layerElement struct {
	layer Layer
}

func (le *layerElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var layer Layer
	switch start.Name.Local {
	case "layer":
		layer = &TileLayer{}
	case "imagelayer":
		layer = &ImageLayer{}
	case "objectgroup":
		layer = &ObjectGroup{}
	case "group":
		layer = &Group{}
	default:
		return d.Skip()
	}

	if err := d.DecodeElement(layer, &start); err != nil {
		return err
	}
	le.layer = layer
	return nil
}

func collectLayers(elements []layerElement) []Layer {
	layers := make([]Layer, 0, len(elements))
	for i := range elements {
		if elements[i].layer != nil {
			layers = append(layers, elements[i].layer)
		}
	}
	return layers
}

// ======================================================
// TileLayer
// ======================================================

type TileLayer struct {
	LayerCommon

	Width  int32 `xml:"width,attr" json:"width"`
	Height int32 `xml:"height,attr" json:"height"`
	StartX int32 `xml:"startx,attr,omitempty" json:"startx,omitempty"`
	StartY int32 `xml:"starty,attr,omitempty" json:"starty,omitempty"`

	Data Data `xml:"data" json:"-"`
}

func (*TileLayer) isLayer() {}

func (l *TileLayer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	l.unmarshalFlags(start)

	type tileLayerAlias TileLayer
	aux := (*tileLayerAlias)(l)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// Data
// ======================================================

type Data struct {
	Encoding    Encoding    `xml:"encoding,attr,omitempty"`
	Compression Compression `xml:"compression,attr,omitempty"`

	Payload

	Chunks []Chunk `xml:"chunk,omitempty"`
}

// Compressed reports whether the payload needs decompression.
func (dt *Data) Compressed() bool {
	return dt.Encoding == EncodingBase64 && dt.Compression != CompressionNone
}

// Payload is the raw tile content of a layer or chunk. Exactly one of the
// fields is expected to be populated: GIDs for inline numeric data, Text for
// csv/base64 text, Tiles for structural tile entries.
type Payload struct {
	GIDs  []uint32   `xml:"-"`
	Text  string     `xml:",chardata"`
	Tiles []DataTile `xml:"tile,omitempty"`
}

type DataTile struct {
	GID uint32 `xml:"gid,attr"`
}

// ======================================================
// Chunk
// ======================================================

type Chunk struct {
	X      int32 `xml:"x,attr"`
	Y      int32 `xml:"y,attr"`
	Width  int32 `xml:"width,attr"`
	Height int32 `xml:"height,attr"`

	Payload
}

// ======================================================
// ImageLayer
// ======================================================

type ImageLayer struct {
	LayerCommon

	Image   Image `xml:"image,omitempty" json:"-"`
	RepeatX *bool `xml:"repeatx,attr,omitempty" json:"repeatx,omitempty"`
	RepeatY *bool `xml:"repeaty,attr,omitempty" json:"repeaty,omitempty"`
}

func (*ImageLayer) isLayer() {}

func (l *ImageLayer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	l.unmarshalFlags(start)

	type imageLayerAlias ImageLayer
	aux := (*imageLayerAlias)(l)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// ObjectGroup
// ======================================================

type ObjectGroup struct {
	LayerCommon

	Color     string    `xml:"color,attr,omitempty" json:"color,omitempty"`
	DrawOrder DrawOrder `xml:"draworder,attr,omitempty" json:"draworder,omitempty"`

	Objects []Object `xml:"object,omitempty" json:"objects"`
}

func (*ObjectGroup) isLayer() {}

func (og *ObjectGroup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	og.unmarshalFlags(start)

	type objectgroupAlias ObjectGroup
	aux := (*objectgroupAlias)(og)

	return d.DecodeElement(aux, &start)
}

// ======================================================
// Group
// ======================================================

type Group struct {
	LayerCommon

	Layers []Layer `xml:"-" json:"-"`
}

func (*Group) isLayer() {}

func (g *Group) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	g.unmarshalFlags(start)

	type groupAlias Group
	aux := struct {
		*groupAlias
		ChildLayers []layerElement `xml:",any"`
	}{
		groupAlias: (*groupAlias)(g),
	}

	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}
	g.Layers = collectLayers(aux.ChildLayers)
	return nil
}

// ======================================================
// Object
// ======================================================

type Object struct {
	ID       int32   `xml:"id,attr" json:"id"`
	Name     string  `xml:"name,attr,omitempty" json:"name"`
	Type     string  `xml:"type,attr,omitempty" json:"type"`
	X        float64 `xml:"x,attr" json:"x"`
	Y        float64 `xml:"y,attr" json:"y"`
	Width    float64 `xml:"width,attr,omitempty" json:"width"`
	Height   float64 `xml:"height,attr,omitempty" json:"height"`
	Rotation float64 `xml:"rotation,attr,omitempty" json:"rotation"`

	Flags ObjectFlag `xml:"-" json:"-"`

	GID      uint32 `xml:"gid,attr,omitempty" json:"gid,omitempty"`
	Template string `xml:"template,attr,omitempty" json:"template,omitempty"`

	Polygon  []Point `xml:"-" json:"polygon,omitempty"`
	Polyline []Point `xml:"-" json:"polyline,omitempty"`
	Text     *Text   `xml:"text,omitempty" json:"text,omitempty"`

	Properties []Property `xml:"properties>property,omitempty" json:"properties,omitempty"`
}

func (o *Object) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	o.Flags |= ObjectFlagVisible

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "visible":
			if attr.Value == "0" || attr.Value == "false" {
				o.Flags &^= ObjectFlagVisible
			} else {
				o.Flags |= ObjectFlagVisible
			}
		case "template":
			if attr.Value != "" {
				o.Flags |= ObjectFlagTemplate
			} else {
				o.Flags &^= ObjectFlagTemplate
			}
		}
	}

	type objectAlias Object
	aux := struct {
		*objectAlias
		Class      string         `xml:"class,attr"`
		Ellipse    *struct{}      `xml:"ellipse"`
		Point      *struct{}      `xml:"point"`
		PolygonEl  *pointsElement `xml:"polygon"`
		PolylineEl *pointsElement `xml:"polyline"`
	}{
		objectAlias: (*objectAlias)(o),
	}

	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}

	if o.Type == "" {
		o.Type = aux.Class
	}
	if aux.Ellipse != nil {
		o.Flags |= ObjectFlagEllipse
	}
	if aux.Point != nil {
		o.Flags |= ObjectFlagPoint
	}

	var err error
	if aux.PolygonEl != nil {
		if o.Polygon, err = parsePoints(aux.PolygonEl.Points); err != nil {
			return err
		}
	}
	if aux.PolylineEl != nil {
		if o.Polyline, err = parsePoints(aux.PolylineEl.Points); err != nil {
			return err
		}
	}
	return nil
}

func (o *Object) IsVisible() bool {
	return o.Flags&ObjectFlagVisible != 0
}

func (o *Object) IsTemplate() bool {
	return o.Flags&ObjectFlagTemplate != 0
}

func (o *Object) IsEllipse() bool {
	return o.Flags&ObjectFlagEllipse != 0
}

func (o *Object) IsPoint() bool {
	return o.Flags&ObjectFlagPoint != 0
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type pointsElement struct {
	Points string `xml:"points,attr"`
}

// parsePoints reads a TMX "x1,y1 x2,y2 ..." point list.
func parsePoints(s string) ([]Point, error) {
	fields := strings.Fields(s)
	points := make([]Point, 0, len(fields))
	for _, pair := range fields {
		xs, ys, _ := strings.Cut(pair, ",")
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// ======================================================
// Text
// ======================================================

type Text struct {
	Text       string `xml:",chardata" json:"text"`
	FontFamily string `xml:"fontfamily,attr,omitempty" json:"fontfamily,omitempty"`
	PixelSize  int32  `xml:"pixelsize,attr,omitempty" json:"pixelsize,omitempty"`
	Color      string `xml:"color,attr,omitempty" json:"color,omitempty"`
	HAlign     string `xml:"halign,attr,omitempty" json:"halign,omitempty"`
	VAlign     string `xml:"valign,attr,omitempty" json:"valign,omitempty"`
	Wrap       bool   `xml:"wrap,attr,omitempty" json:"wrap,omitempty"`
	Bold       bool   `xml:"bold,attr,omitempty" json:"bold,omitempty"`
	Italic     bool   `xml:"italic,attr,omitempty" json:"italic,omitempty"`
	Underline  bool   `xml:"underline,attr,omitempty" json:"underline,omitempty"`
	Strikeout  bool   `xml:"strikeout,attr,omitempty" json:"strikeout,omitempty"`
	Kerning    *bool  `xml:"kerning,attr,omitempty" json:"kerning,omitempty"`
}

// ======================================================
// Image
// ======================================================

type Image struct {
	Width  int32 `xml:"width,attr,omitempty"`
	Height int32 `xml:"height,attr,omitempty"`

	Source string `xml:"source,attr,omitempty"`
	Trans  string `xml:"trans,attr,omitempty"`
}

// ======================================================
// Offset
// ======================================================

type Offset struct {
	X int32 `xml:"x,attr,omitempty" json:"x"`
	Y int32 `xml:"y,attr,omitempty" json:"y"`
}

// ======================================================
// Property
// ======================================================

// Property is a custom property. Values are kept in their textual form; Type
// tells how to interpret them ("string" when unset).
type Property struct {
	Name         string `xml:"name,attr" json:"name"`
	Type         string `xml:"type,attr,omitempty" json:"type,omitempty"`
	PropertyType string `xml:"propertytype,attr,omitempty" json:"propertytype,omitempty"`
	Value        string `xml:"value,attr" json:"-"`

	Properties []Property `xml:"properties>property,omitempty" json:"-"`
}

func (p *Property) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type propertyAlias Property
	aux := struct {
		*propertyAlias
		Content string `xml:",chardata"`
	}{
		propertyAlias: (*propertyAlias)(p),
	}

	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}

	hasValue := false
	for _, attr := range start.Attr {
		if attr.Name.Local == "value" {
			hasValue = true
			break
		}
	}
	if !hasValue && len(p.Properties) == 0 {
		// Multiline strings are stored as element text.
		p.Value = aux.Content
	}
	if p.Type == "" {
		p.Type = "string"
	}
	return nil
}
