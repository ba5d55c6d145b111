package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/adm87/tmx/tilemap"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type benchCmd struct {
	stream   bool
	duration time.Duration
	width    int
	height   int
	pprof    string
}

func (c *benchCmd) Name() string     { return "bench" }
func (c *benchCmd) Synopsis() string { return "run random region queries against a map" }
func (c *benchCmd) Usage() string {
	return "tmxinspect bench [-d 5s] [-w 25] [-h 25] [-pprof localhost:6060] <map>\n"
}
func (c *benchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.stream, "stream", false, "Resolve with the streaming resolver")
	f.DurationVar(&c.duration, "d", 5*time.Second, "How long to run")
	f.IntVar(&c.width, "w", 25, "Query width in tiles")
	f.IntVar(&c.height, "h", 25, "Query height in tiles")
	f.StringVar(&c.pprof, "pprof", "", "Serve net/http/pprof on this address while running")
}

func (c *benchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := loadMap(ctx, f.Arg(0), c.stream)
	if err != nil {
		slog.Error("resolve failed", slog.Any("error", err))
		return subcommands.ExitFailure
	}

	if c.pprof != "" {
		go func() {
			slog.Info("profiling server", slog.String("addr", "http://"+c.pprof+"/debug/pprof/"))
			if err := http.ListenAndServe(c.pprof, nil); err != nil {
				slog.Error("profiling server stopped", slog.Any("error", err))
			}
		}()
	}

	bounds := m.Bounds()
	queries, tiles := 0, 0
	var checksum uint64
	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())

	deadline := time.Now().Add(c.duration)
	for time.Now().Before(deadline) {
		region := randomRegion(bounds, int32(c.width), int32(c.height))

		it := m.Tiles(region)
		for layer := it.Next(); layer != nil; layer = it.Next() {
			for _, t := range layer {
				if ts := m.Tileset(t.Tile); ts != nil {
					_, _, _, _, _ = ts.SourceRect(t.Tile.LocalID)
				}
				_ = t.Tile.Flip.Horizontal()
				_ = t.Tile.Flip.Vertical()
				tiles++
			}
		}

		queries++
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	slog.Info("bench done",
		slog.Int("queries", queries),
		slog.Int("tiles", tiles),
		slog.Uint64("checksum", checksum),
		slog.Duration("duration", c.duration),
	)
	return subcommands.ExitSuccess
}

// tileChecksum folds the draw inputs of one tile (source rect, flips, gid)
// into a value so the bench loop does the work a renderer would.
func tileChecksum(m *tilemap.Map, d tilemap.Data) uint64 {
	sum := uint64(d.Tile.GID) + uint64(d.Tile.Flip)<<32
	if ts := m.Tileset(d.Tile); ts != nil {
		if x, y, w, h, ok := ts.SourceRect(d.Tile.LocalID); ok {
			sum += uint64(x) + uint64(y)<<8 + uint64(w)<<16 + uint64(h)<<24
		}
	}
	return sum
}

// randomRegion picks a w×h region inside bounds, clamped when bounds is smaller.
func randomRegion(bounds tilemap.Region, w, h int32) tilemap.Region {
	x, y := bounds.MinX, bounds.MinY
	if span := bounds.Width() - w; span > 0 {
		x += rand.Int32N(span)
	}
	if span := bounds.Height() - h; span > 0 {
		y += rand.Int32N(span)
	}
	return tilemap.Region{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}
