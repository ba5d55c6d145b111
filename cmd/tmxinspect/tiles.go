package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adm87/tmx/tilemap"
	"github.com/google/subcommands"
)

type tilesCmd struct {
	stream bool
	region string
}

func (c *tilesCmd) Name() string     { return "tiles" }
func (c *tilesCmd) Synopsis() string { return "dump the placed tiles of a region" }
func (c *tilesCmd) Usage() string {
	return "tmxinspect tiles [-stream] [-r minX,minY,maxX,maxY] <map>\n"
}
func (c *tilesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.stream, "stream", false, "Resolve with the streaming resolver")
	f.StringVar(&c.region, "r", "", "Tile region, max exclusive (default: map bounds)")
}

func (c *tilesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := loadMap(ctx, f.Arg(0), c.stream)
	if err != nil {
		slog.Error("resolve failed", slog.Any("error", err))
		return subcommands.ExitFailure
	}

	region := m.Bounds()
	if c.region != "" {
		if region, err = parseRegion(c.region); err != nil {
			slog.Error("invalid region", slog.String("region", c.region), slog.Any("error", err))
			return subcommands.ExitUsageError
		}
	}

	printTiles(os.Stdout, m, region)
	return subcommands.ExitSuccess
}

func parseRegion(s string) (tilemap.Region, error) {
	var r tilemap.Region
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.MinX, &r.MinY, &r.MaxX, &r.MaxY); err != nil {
		return tilemap.Region{}, err
	}
	if r.MinX > r.MaxX || r.MinY > r.MaxY {
		return tilemap.Region{}, fmt.Errorf("min exceeds max")
	}
	return r, nil
}

func printTiles(w io.Writer, m *tilemap.Map, region tilemap.Region) {
	it := m.Tiles(region)
	for tiles := it.Next(); tiles != nil; tiles = it.Next() {
		if len(tiles) == 0 {
			continue
		}
		fmt.Fprintf(w, "layer %q\n", tiles[0].Layer.Name)
		for _, t := range tiles {
			ts := m.Tileset(t.Tile)
			name := ""
			if ts != nil {
				name = ts.Name
			}
			fmt.Fprintf(w, "  (%d,%d) px=(%g,%g) gid=%d tileset=%q local=%d flip=%s\n",
				t.Col, t.Row, t.X, t.Y, t.Tile.GID, name, t.Tile.LocalID, t.Tile.Flip)
		}
	}
}
