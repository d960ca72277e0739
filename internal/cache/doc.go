// Package cache keeps recently read blob blocks in memory.
//
// Sequence sources in remote blob stores are read once per build and once
// per node enumeration. Blocks holds the fixed-size blocks of those reads,
// split across shards so concurrent replays rarely contend on a lock.
package cache
