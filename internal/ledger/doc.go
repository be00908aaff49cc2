// Package ledger persists a history of conversion attempts in SQLite.
//
// The ledger is observability only. The dedup filter never consults it; the
// converted file on disk remains the sole marker of "already processed".
package ledger
