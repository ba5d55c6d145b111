package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/adm87/tmx/tilemap"
	"github.com/google/subcommands"
)

type infoCmd struct {
	stream bool
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print map, tileset and layer summary" }
func (c *infoCmd) Usage() string {
	return "tmxinspect info [-stream] <map>\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.stream, "stream", false, "Resolve with the streaming resolver")
}

func (c *infoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := loadMap(ctx, f.Arg(0), c.stream)
	if err != nil {
		slog.Error("resolve failed", slog.Any("error", err))
		return subcommands.ExitFailure
	}

	printInfo(os.Stdout, m)
	return subcommands.ExitSuccess
}

func printInfo(w io.Writer, m *tilemap.Map) {
	fmt.Fprintf(w, "map: %dx%d tiles of %dx%d, %s, render order %s",
		m.Width, m.Height, m.TileWidth, m.TileHeight, m.Orientation, m.RenderOrder)
	if m.Infinite {
		fmt.Fprint(w, ", infinite")
	}
	fmt.Fprintln(w)

	b := m.Bounds()
	fmt.Fprintf(w, "bounds: (%d,%d)-(%d,%d)\n", b.MinX, b.MinY, b.MaxX, b.MaxY)

	fmt.Fprintf(w, "tilesets: %d\n", len(m.Tilesets))
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		fmt.Fprintf(w, "  [%d] %q firstgid=%d tiles=%d columns=%d size=%dx%d\n",
			i, ts.Name, ts.FirstGID, ts.TileCount, ts.Columns, ts.TileWidth, ts.TileHeight)
	}

	fmt.Fprintln(w, "layers:")
	printLayers(w, m.Layers, 1)
}

func printLayers(w io.Writer, layers []tilemap.Layer, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, layer := range layers {
		base := layer.Base()
		hidden := ""
		if !base.IsVisible() {
			hidden = " (hidden)"
		}

		switch l := layer.(type) {
		case *tilemap.TileLayer:
			if l.Infinite {
				fmt.Fprintf(w, "%stile %q%s: %d chunks, %d tiles\n", indent, base.Name, hidden, len(l.Chunks), countChunkTiles(l.Chunks))
			} else {
				fmt.Fprintf(w, "%stile %q%s: %dx%d, %d tiles\n", indent, base.Name, hidden, l.Width, l.Height, countTiles(l.Tiles))
			}
		case *tilemap.ImageLayer:
			fmt.Fprintf(w, "%simage %q%s: %s\n", indent, base.Name, hidden, l.Image.Source)
		case *tilemap.ObjectLayer:
			fmt.Fprintf(w, "%sobjects %q%s: %d objects, %s\n", indent, base.Name, hidden, len(l.Objects), l.DrawOrder)
		case *tilemap.GroupLayer:
			fmt.Fprintf(w, "%sgroup %q%s\n", indent, base.Name, hidden)
			printLayers(w, l.Layers, depth+1)
		}
	}
}

func countChunkTiles(chunks []tilemap.Chunk) int {
	n := 0
	for i := range chunks {
		n += countTiles(chunks[i].Tiles)
	}
	return n
}

func countTiles[T any](tiles []*T) int {
	n := 0
	for _, t := range tiles {
		if t != nil {
			n++
		}
	}
	return n
}
