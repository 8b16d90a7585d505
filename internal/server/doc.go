// Package server assembles the Fiber application: recover/CORS middleware,
// per-request ID generation, the diagnostics prefix, and the wildcard route
// that hands every remaining request to the image handler.
package server
