// Package ffprobe answers codec questions about media files by shelling out
// to ffprobe.
//
// Primary entry point:
//   - Prober.AudioCodec: returns the codec name of the first audio stream
//
// Probes are bounded by a per-call timeout and never inspect more than the
// first audio stream.
package ffprobe
