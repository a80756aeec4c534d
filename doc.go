// Package inkjournal is the composition root of the handwriting journal.
//
// It connects the core logic (notes, smoothing, recognition) with the
// filesystem adapter using the hexagonal architecture of pkg/core.
//
// A journal is a directory holding one JSON record per note. Notes are
// drawn as strokes of timestamped points, smoothed with a moving average,
// run through a handwriting recognizer on save, and can be exported as a
// one-page PDF or a PNG preview.
//
// Features:
//
//   - **Best-effort loading**: a corrupt record never hides the others.
//   - **Atomic writes**: a failed save leaves the previous version intact.
//   - **Optional history**: every change can be committed with git.
//   - **Pluggable recognition**: any engine behind recognition.Engine.
//   - **Watchable**: external edits are reported as events.
//
// Usage:
//
//	svc, err := inkjournal.New("./journal",
//		inkjournal.WithAutoInit(true),
//		inkjournal.WithLogger(logger),
//	)
//
//	session := inkjournal.NewSession()
//	session.AddStroke(points)
//	note, err := session.SaveAndClear(ctx, svc)
package inkjournal
