// Package book implements the in-memory order book core: fixed-capacity
// side books per instrument, price-time best-order discovery, and the
// bounded best-vs-best matching round.
//
// Side books are append-only arenas sized at construction; filled orders
// go inactive in place instead of being removed. Matching for one
// instrument is confined to a single round at a time, while rounds on
// different instruments run fully in parallel. The package is
// dependency-free and performs no I/O.
package book
