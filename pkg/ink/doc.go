// Package ink holds the pure stroke operations of the journal and the
// editing session that accumulates strokes before they are saved.
//
// Everything here is free of I/O. Smoothing functions are safe to call from
// any goroutine; a Session is owned by a single caller and is not locked.
package ink
