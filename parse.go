package tmx

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
)

// ParseTmx reads a TMX (XML) map document.
func ParseTmx(r io.Reader) (*Map, error) {
	var m Map
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: tmx: %w", ErrInvalidDocument, err)
	}
	return &m, nil
}

// ParseTsx reads a standalone TSX (XML) tileset document.
func ParseTsx(r io.Reader) (*Tileset, error) {
	var doc struct {
		XMLName xml.Name `xml:"tileset"`
		Tileset
	}
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: tsx: %w", ErrInvalidDocument, err)
	}
	return &doc.Tileset, nil
}

// ParseJSON reads a Tiled JSON map document.
func ParseJSON(r io.Reader) (*Map, error) {
	var m Map
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: json map: %w", ErrInvalidDocument, err)
	}
	return &m, nil
}

// ParseTilesetJSON reads a standalone Tiled JSON tileset document.
func ParseTilesetJSON(r io.Reader) (*Tileset, error) {
	var ts Tileset
	if err := json.NewDecoder(r).Decode(&ts); err != nil {
		return nil, fmt.Errorf("%w: json tileset: %w", ErrInvalidDocument, err)
	}
	return &ts, nil
}
