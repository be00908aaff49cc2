package pipeline

import "poolconv/internal/catalog"

// Task is one clip selected for conversion.
type Task struct {
	Clip     catalog.Clip
	BaseName string
	Codec    string
}

// targetCodecs are the compressed audio codecs poolconv rewrites. Matching is
// exact after the prober's lowercase/trim normalization, never prefix or
// fuzzy.
var targetCodecs = map[string]struct{}{
	"aac":  {},
	"opus": {},
}

// NeedsConversion reports whether codec is one of the targeted codecs.
func NeedsConversion(codec string) bool {
	_, ok := targetCodecs[codec]
	return ok
}
