// Package cache defines the in-memory result cache mapping (resolved path,
// normalized transform) keys to encoded image bytes. Entries are bounded by a
// configured capacity with oldest-by-last-refresh eviction and expire after a
// sliding TTL window; reads refresh the window. The handler depends on this
// package to serve repeated transform requests without re-running the
// decode/resample/encode pipeline.
package cache
