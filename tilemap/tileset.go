package tilemap

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/adm87/tmx"
)

func resolveTilesets(entries []tmx.TilesetEntry, cfg *config) ([]Tileset, error) {
	tilesets := make([]Tileset, len(entries))

	for i, entry := range entries {
		switch e := entry.(type) {
		case *tmx.Tileset:
			tilesets[i] = resolveTileset(e)
		case *tmx.TilesetRef:
			external, ok := cfg.ExternalTilesets[e.Source]
			if !ok || external == nil {
				return nil, &MissingTilesetError{Source: e.Source}
			}
			def := *external
			def.FirstGID = e.FirstGID
			tilesets[i] = resolveTileset(&def)
		default:
			return nil, fmt.Errorf("%w: tileset entry %d has type %T", ErrInvalidMap, i, entry)
		}

		cfg.Logger.Debug("resolved tileset",
			slog.Int("index", i),
			slog.String("name", tilesets[i].Name),
			slog.Uint64("firstgid", uint64(tilesets[i].FirstGID)),
			slog.Int("columns", int(tilesets[i].Columns)),
		)
	}

	return tilesets, nil
}

func resolveTileset(raw *tmx.Tileset) Tileset {
	defs := make([]tmx.TileDefinition, len(raw.Tiles))
	tiles := make(map[uint32]*tmx.TileDefinition, len(defs))
	for i := range raw.Tiles {
		defs[i] = raw.Tiles[i].Clone()
		tiles[defs[i].ID] = &defs[i]
	}

	ts := Tileset{
		FirstGID:        raw.FirstGID,
		Name:            raw.Name,
		Class:           raw.Class,
		TileWidth:       raw.TileWidth,
		TileHeight:      raw.TileHeight,
		TileCount:       raw.TileCount,
		Columns:         tilesetColumns(raw),
		Margin:          raw.Margin,
		Spacing:         raw.Spacing,
		Image:           raw.Image,
		ObjectAlignment: raw.ObjectAlignment,
		TileRenderSize:  raw.TileRenderSize,
		FillMode:        raw.FillMode,
		Grid:            raw.Grid.Clone(),
		Transformations: raw.Transformations.Clone(),
		WangSets:        tmx.CloneWangSets(raw.WangSets),
		Properties:      properties(raw.Properties),
		Tiles:           tiles,
	}
	if raw.TileOffset != nil {
		ts.TileOffset = *raw.TileOffset
	}
	return ts
}

// tilesetColumns returns the explicit column count, or derives it from the
// image width when the tileset does not state one.
func tilesetColumns(raw *tmx.Tileset) int32 {
	if raw.Columns > 0 {
		return raw.Columns
	}
	if raw.Image.Width == 0 || raw.TileWidth <= 0 {
		return 0
	}
	usable := float64(raw.Image.Width - 2*raw.Margin + raw.Spacing)
	return int32(math.Floor(usable / float64(raw.TileWidth+raw.Spacing)))
}

// tileResolver attributes decoded gids to tilesets.
type tileResolver struct {
	tilesets []Tileset
	strict   bool
}

// find returns the index of the last tileset whose firstgid is <= gid.
// Tilesets are expected in ascending firstgid order but this is not checked.
func (tr *tileResolver) find(gid uint32) (int, bool) {
	for i := len(tr.tilesets) - 1; i >= 0; i-- {
		if tr.tilesets[i].FirstGID <= gid {
			return i, true
		}
	}
	return 0, false
}

// resolve decodes and attributes every raw gid. The result has the same
// length as raw; empty cells are nil. It also returns how many gids had no
// qualifying tileset and fell back to index 0.
func (tr *tileResolver) resolve(raw []uint32) ([]*tmx.DecodedTile, int, error) {
	count := 0
	for _, v := range raw {
		if v&tmx.GIDMask != 0 {
			count++
		}
	}

	backing := make([]tmx.DecodedTile, 0, count)
	tiles := make([]*tmx.DecodedTile, len(raw))
	fallbacks := 0

	for i, v := range raw {
		tile, ok := tmx.DecodeGID(v)
		if !ok {
			continue
		}

		idx, found := tr.find(tile.GID)
		if !found {
			if tr.strict {
				return nil, 0, fmt.Errorf("%w: gid %d", ErrTilesetNotFound, tile.GID)
			}
			fallbacks++
		}
		tile.TilesetIndex = idx
		if found {
			tile.LocalID = tile.GID - tr.tilesets[idx].FirstGID
		}

		backing = append(backing, tile)
		tiles[i] = &backing[len(backing)-1]
	}

	return tiles, fallbacks, nil
}
