package tmx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func (m *Map) UnmarshalJSON(b []byte) error {
	type mapAlias Map
	aux := struct {
		*mapAlias
		Infinite    bool              `json:"infinite"`
		RawTilesets []json.RawMessage `json:"tilesets"`
		RawLayers   []json.RawMessage `json:"layers"`
	}{
		mapAlias: (*mapAlias)(m),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if aux.Infinite {
		m.Flags |= MapFlagInfinite
	}

	m.Tilesets = make([]TilesetEntry, 0, len(aux.RawTilesets))
	for _, raw := range aux.RawTilesets {
		entry, err := unmarshalTilesetEntryJSON(raw)
		if err != nil {
			return err
		}
		m.Tilesets = append(m.Tilesets, entry)
	}

	layers, err := unmarshalLayersJSON(aux.RawLayers)
	if err != nil {
		return err
	}
	m.Layers = layers
	return nil
}

// A tileset entry is a reference when it has a source and no name.
func unmarshalTilesetEntryJSON(raw json.RawMessage) (TilesetEntry, error) {
	var probe struct {
		Source string  `json:"source"`
		Name   *string `json:"name"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	if probe.Source != "" && probe.Name == nil {
		ref := &TilesetRef{}
		if err := json.Unmarshal(raw, ref); err != nil {
			return nil, err
		}
		return ref, nil
	}

	ts := &Tileset{}
	if err := json.Unmarshal(raw, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (ts *Tileset) UnmarshalJSON(b []byte) error {
	type tilesetAlias Tileset
	aux := struct {
		*tilesetAlias
		imageJSON
	}{
		tilesetAlias: (*tilesetAlias)(ts),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	ts.Image = aux.image()
	return nil
}

func (td *TileDefinition) UnmarshalJSON(b []byte) error {
	type tileAlias TileDefinition
	aux := struct {
		*tileAlias
		imageJSON
		Class       string       `json:"class"`
		ObjectGroup *ObjectGroup `json:"objectgroup"`
	}{
		tileAlias: (*tileAlias)(td),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if td.Type == "" {
		td.Type = aux.Class
	}
	if aux.imageJSON.Image != "" {
		img := aux.image()
		td.Image = &img
	}
	td.ObjectGroup = aux.ObjectGroup
	return nil
}

// imageJSON is the flattened image description used by the JSON format.
type imageJSON struct {
	Image            string `json:"image"`
	ImageWidth       int32  `json:"imagewidth"`
	ImageHeight      int32  `json:"imageheight"`
	TransparentColor string `json:"transparentcolor"`
}

func (ij imageJSON) image() Image {
	return Image{
		Source: ij.Image,
		Width:  ij.ImageWidth,
		Height: ij.ImageHeight,
		Trans:  ij.TransparentColor,
	}
}

// ======================================================
// Layers
// ======================================================

func unmarshalLayersJSON(raws []json.RawMessage) ([]Layer, error) {
	layers := make([]Layer, 0, len(raws))
	for _, raw := range raws {
		layer, err := unmarshalLayerJSON(raw)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func unmarshalLayerJSON(raw json.RawMessage) (Layer, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	var layer Layer
	switch probe.Type {
	case "tilelayer":
		layer = &TileLayer{}
	case "imagelayer":
		layer = &ImageLayer{}
	case "objectgroup":
		layer = &ObjectGroup{}
	case "group":
		layer = &Group{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayerType, probe.Type)
	}

	if err := json.Unmarshal(raw, layer); err != nil {
		return nil, err
	}
	return layer, nil
}

type layerFlagsJSON struct {
	Visible *bool `json:"visible"`
	Locked  bool  `json:"locked"`
}

func (lf layerFlagsJSON) flags() LayerFlag {
	var flags LayerFlag
	if lf.Visible == nil || *lf.Visible {
		flags |= LayerFlagVisible
	}
	if lf.Locked {
		flags |= LayerFlagLocked
	}
	return flags
}

type chunkJSON struct {
	X      int32           `json:"x"`
	Y      int32           `json:"y"`
	Width  int32           `json:"width"`
	Height int32           `json:"height"`
	Data   json.RawMessage `json:"data"`
}

// payloadFromJSON accepts either a numeric array or an encoded string.
func payloadFromJSON(raw json.RawMessage) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Payload{}, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Payload{}, err
		}
		return Payload{Text: text}, nil
	}

	gids := []uint32{}
	if err := json.Unmarshal(raw, &gids); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return Payload{GIDs: gids}, nil
}

func (l *TileLayer) UnmarshalJSON(b []byte) error {
	type tileLayerAlias TileLayer
	aux := struct {
		*tileLayerAlias
		layerFlagsJSON
		Encoding    Encoding        `json:"encoding"`
		Compression Compression     `json:"compression"`
		Data        json.RawMessage `json:"data"`
		Chunks      []chunkJSON     `json:"chunks"`
	}{
		tileLayerAlias: (*tileLayerAlias)(l),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	l.Flags = aux.flags()
	l.Data.Encoding = aux.Encoding
	l.Data.Compression = aux.Compression

	payload, err := payloadFromJSON(aux.Data)
	if err != nil {
		return err
	}
	l.Data.Payload = payload

	if len(aux.Chunks) > 0 {
		l.Data.Chunks = make([]Chunk, len(aux.Chunks))
		for i, c := range aux.Chunks {
			payload, err := payloadFromJSON(c.Data)
			if err != nil {
				return err
			}
			l.Data.Chunks[i] = Chunk{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Payload: payload}
		}
	}
	return nil
}

func (l *ImageLayer) UnmarshalJSON(b []byte) error {
	type imageLayerAlias ImageLayer
	aux := struct {
		*imageLayerAlias
		layerFlagsJSON
		imageJSON
	}{
		imageLayerAlias: (*imageLayerAlias)(l),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	l.Flags = aux.flags()
	l.Image = aux.image()
	return nil
}

func (og *ObjectGroup) UnmarshalJSON(b []byte) error {
	type objectgroupAlias ObjectGroup
	aux := struct {
		*objectgroupAlias
		layerFlagsJSON
	}{
		objectgroupAlias: (*objectgroupAlias)(og),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	og.Flags = aux.flags()
	return nil
}

func (g *Group) UnmarshalJSON(b []byte) error {
	type groupAlias Group
	aux := struct {
		*groupAlias
		layerFlagsJSON
		RawLayers []json.RawMessage `json:"layers"`
	}{
		groupAlias: (*groupAlias)(g),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	g.Flags = aux.flags()
	layers, err := unmarshalLayersJSON(aux.RawLayers)
	if err != nil {
		return err
	}
	g.Layers = layers
	return nil
}

// ======================================================
// Objects and properties
// ======================================================

func (o *Object) UnmarshalJSON(b []byte) error {
	type objectAlias Object
	aux := struct {
		*objectAlias
		Class   string `json:"class"`
		Visible *bool  `json:"visible"`
		Ellipse bool   `json:"ellipse"`
		Point   bool   `json:"point"`
	}{
		objectAlias: (*objectAlias)(o),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	o.Flags = 0
	if aux.Visible == nil || *aux.Visible {
		o.Flags |= ObjectFlagVisible
	}
	if o.Template != "" {
		o.Flags |= ObjectFlagTemplate
	}
	if aux.Ellipse {
		o.Flags |= ObjectFlagEllipse
	}
	if aux.Point {
		o.Flags |= ObjectFlagPoint
	}
	if o.Type == "" {
		o.Type = aux.Class
	}
	return nil
}

// Non-string values are kept as their JSON literal text.
func (p *Property) UnmarshalJSON(b []byte) error {
	type propertyAlias Property
	aux := struct {
		*propertyAlias
		RawValue json.RawMessage `json:"value"`
	}{
		propertyAlias: (*propertyAlias)(p),
	}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.RawValue)
	switch {
	case len(raw) == 0:
		p.Value = ""
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &p.Value); err != nil {
			return err
		}
	default:
		p.Value = string(raw)
	}

	if p.Type == "" {
		p.Type = "string"
	}
	return nil
}
