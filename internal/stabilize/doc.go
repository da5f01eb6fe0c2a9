// Package stabilize turns a noisy, per-frame stream of recognized text into a
// single confirmed string.
//
// Three pieces cooperate:
//
//   - Normalizer maps visually confusable characters (s/S/5, o/O/0, l/I/1,
//     B/8, Q/O) onto a target alphabet, following at most MaxHops
//     substitutions.
//   - Extractor pulls a digits-and-spaces string out of one recognized line,
//     together with the span of the first "token whitespace token" run.
//   - Tracker counts how often each extracted string has been seen, ages out
//     strings not seen recently, and reports a string as stable once it has
//     been seen often enough.
//
// # Frame Driven Aging
//
// The Tracker has no clock. Its aging window is measured in calls to
// LogFrame, so callers must log every frame, including frames where nothing
// was extracted. Skipping empty frames stretches the window in real time.
//
// # Concurrency
//
// None of the types here are safe for concurrent use. A Tracker belongs to a
// single tracking session; callers that feed it from several goroutines must
// serialize access themselves.
package stabilize
