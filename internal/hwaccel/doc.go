// Package hwaccel negotiates an ffmpeg hardware acceleration backend at
// startup.
//
// Candidates are tried in priority order with a short synthetic encode; the
// first that succeeds wins. Detection happens once, the result is immutable
// for the process lifetime.
package hwaccel
