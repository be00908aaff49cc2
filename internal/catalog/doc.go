// Package catalog defines the media-pool abstraction the pipeline works
// against.
//
// A Catalog enumerates clips with their on-disk paths and swaps a converted
// file in for an original. The resolve subpackage implements the interface
// over the editing application's HTTP scripting gateway.
package catalog
