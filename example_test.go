package inkjournal_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/inkjournal"
	"github.com/aretw0/inkjournal/pkg/ink"
	"github.com/aretw0/inkjournal/pkg/recognition"
)

// Example_basic draws a note, saves it and lists the journal.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "inkjournal-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	journal, err := inkjournal.New(tmpDir,
		inkjournal.WithAutoInit(true),
		inkjournal.WithRecognizer(recognition.NewService(recognition.Static{Candidates: []string{"hello"}})),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	session := inkjournal.NewSession()
	session.AddStroke([]inkjournal.Point{
		{X: 0, Y: 0, Timestamp: 0},
		{X: 10, Y: 0, Timestamp: 10},
		{X: 20, Y: 0, Timestamp: 20},
		{X: 30, Y: 0, Timestamp: 30},
		{X: 40, Y: 0, Timestamp: 40},
	})

	if _, err := session.SaveAndClear(ctx, journal); err != nil {
		log.Fatal(err)
	}

	summaries, err := journal.ListSummaries(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range summaries {
		fmt.Printf("%q: %d stroke(s), %d point(s)\n", s.RecognizedText, s.StrokeCount, s.PointCount)
	}
	// Output:
	// "hello": 1 stroke(s), 5 point(s)
}

// Example_smoothing shows the clamped moving average on a straight line.
func Example_smoothing() {
	points := []inkjournal.Point{
		{X: 0, Y: 0, Timestamp: 0},
		{X: 10, Y: 0, Timestamp: 10},
		{X: 20, Y: 0, Timestamp: 20},
		{X: 30, Y: 0, Timestamp: 30},
		{X: 40, Y: 0, Timestamp: 40},
	}
	for _, p := range ink.Smooth(points, ink.DefaultWindow) {
		fmt.Println(p.X, p.Timestamp)
	}
	// Output:
	// 10 10
	// 15 15
	// 20 20
	// 25 25
	// 30 30
}
