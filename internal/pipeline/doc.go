// Package pipeline contains the conversion workflow: scanning the media pool
// for clips that need their audio rewritten, converting them through a
// bounded worker pool, and swapping results back into the pool.
package pipeline
