package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/adm87/tmx"
	"github.com/adm87/tmx/tilemap"
)

// loadMap parses the map at filePath, loads its external tilesets and
// resolves it. stream selects the decompressing resolver.
func loadMap(ctx context.Context, filePath string, stream bool) (*tilemap.Map, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	// Root the filesystem at the volume so tileset sources may climb out of
	// the map's directory.
	root := filepath.VolumeName(abs) + string(filepath.Separator)
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, err
	}
	name := filepath.ToSlash(rel)
	fsys := os.DirFS(root)

	raw, err := tmx.LoadMap(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	external, err := tmx.LoadTilesets(fsys, path.Dir(name), raw)
	if err != nil {
		return nil, err
	}

	opts := []tilemap.Option{
		tilemap.WithExternalTilesets(external),
		tilemap.WithLogger(slog.Default()),
	}

	if stream || raw.Compressed() {
		if !stream {
			slog.Info("map has compressed payloads, using the streaming resolver")
		}
		return tilemap.ResolveStream(ctx, raw, opts...)
	}
	return tilemap.Resolve(raw, opts...)
}
