// Package counter provides a sharded, concurrency-safe k-mer count table.
//
// The table distributes keys across 64 shards, each a map guarded by its own
// mutex. Writers buffer keys per shard in a Batch and take each shard lock
// once per flush. Growth is charged to a resource.Controller so a build can
// fail fast when it exceeds its memory budget.
package counter
