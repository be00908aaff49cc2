// Package processed tracks which clips already have a converted output file.
//
// The set is seeded by scanning the output directory at startup and grows as
// conversions succeed. Presence of the converted file on disk is the
// authoritative marker; the in-memory set only mirrors it for cheap lookups.
package processed
