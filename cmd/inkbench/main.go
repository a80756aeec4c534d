package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/aretw0/inkjournal"
	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/ink"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	strokes := flag.Int("strokes", 20, "Strokes per note")
	points := flag.Int("points", 60, "Points per stroke")
	format := flag.String("format", "json", "Record format (json or yaml)")
	keep := flag.Bool("keep", false, "Keep the benchmark journal after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "inkjournal_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	// Versioning off: this measures smoothing, encoding and IO, not git.
	service, err := inkjournal.New(benchDir,
		inkjournal.WithLogger(logger),
		inkjournal.WithAutoInit(true),
		inkjournal.WithVersioning(false),
		inkjournal.WithFormat(*format),
		inkjournal.WithDevSafety(false),
	)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	fmt.Printf("Writing %d notes (%d strokes x %d points) to %s...\n", *count, *strokes, *points, benchDir)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		session := ink.NewSession()
		for s := 0; s < *strokes; s++ {
			session.AddStroke(scribble(rng, *points))
		}
		if _, err := session.Save(ctx, service); err != nil {
			panic(err)
		}
	}
	genDuration := time.Since(startGen)

	// Run 1: cold, builds the index cache.
	startList := time.Now()
	list, err := service.ListSummaries(ctx)
	if err != nil {
		panic(err)
	}
	cold := time.Since(startList)

	// Run 2: a fresh service, as a new CLI invocation would see it.
	service2, err := inkjournal.New(benchDir,
		inkjournal.WithLogger(logger),
		inkjournal.WithVersioning(false),
		inkjournal.WithFormat(*format),
		inkjournal.WithDevSafety(false),
	)
	if err != nil {
		panic(err)
	}
	startList2 := time.Now()
	list2, err := service2.ListSummaries(ctx)
	if err != nil {
		panic(err)
	}
	warm := time.Since(startList2)

	startFull := time.Now()
	notes, err := service2.ListNotes(ctx)
	if err != nil {
		panic(err)
	}
	full := time.Since(startFull)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %s):\n", *count, *format)
	fmt.Printf("  Save:           %v (%v/note)\n", genDuration, genDuration/time.Duration(max(*count, 1)))
	fmt.Printf("  Summaries cold: %v (items: %d)\n", cold, len(list))
	fmt.Printf("  Summaries warm: %v (items: %d)\n", warm, len(list2))
	fmt.Printf("  Full load:      %v (items: %d)\n", full, len(notes))
	fmt.Printf("--------------------------------------------------\n")
}

// scribble produces a wobbly line like a quick pen stroke.
func scribble(rng *rand.Rand, n int) []core.Point {
	pts := make([]core.Point, n)
	x, y := rng.Float64()*1000, rng.Float64()*1800
	t := int64(0)
	for i := range pts {
		x += 4 + rng.NormFloat64()*2
		y += math.Sin(float64(i)/5)*6 + rng.NormFloat64()*2
		t += int64(8 + rng.Intn(4))
		pts[i] = core.Point{X: float32(x), Y: float32(y), Timestamp: t}
	}
	return pts
}
