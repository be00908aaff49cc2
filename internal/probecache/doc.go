// Package probecache memoizes codec probe results per file path.
//
// The cache is bounded: once capacity is reached the oldest entry is evicted,
// insertion order, not recency. Probe failures are never stored so a
// transiently unreadable file gets probed again on the next poll.
package probecache
