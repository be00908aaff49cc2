// Command poolconv is the media-pool audio conversion daemon and its CLI.
//
// The run command starts the background daemon; convert, detect, history,
// status, and config provide one-shot operations against the same
// configuration.
package main
