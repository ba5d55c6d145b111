package tmx

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// LoadTilesets reads every external tileset referenced by m from fsys.
// Sources are resolved relative to dir, the directory of the map document.
// The result is keyed by the reference's source string as written in the map.
func LoadTilesets(fsys fs.FS, dir string, m *Map) (map[string]*Tileset, error) {
	tilesets := make(map[string]*Tileset)

	for _, entry := range m.Tilesets {
		ref, ok := entry.(*TilesetRef)
		if !ok {
			continue
		}
		if _, exists := tilesets[ref.Source]; exists {
			continue
		}

		ts, err := loadTileset(fsys, path.Join(dir, ref.Source))
		if err != nil {
			return nil, fmt.Errorf("load tileset %q: %w", ref.Source, err)
		}
		tilesets[ref.Source] = ts
	}

	return tilesets, nil
}

func loadTileset(fsys fs.FS, name string) (*Tileset, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".tsj":
		return ParseTilesetJSON(file)
	default:
		return ParseTsx(file)
	}
}

// LoadMap reads a map document from fsys, choosing the parser by extension
// (.json/.tmj for JSON, anything else for TMX).
func LoadMap(fsys fs.FS, name string) (*Map, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".tmj":
		return ParseJSON(file)
	default:
		return ParseTmx(file)
	}
}
