// Package cache provides LRU caching for blob block data.
//
// The LRUBlockCache stores recently read blocks from blob stores so that
// repeated ranged reads over the same snapshot region hit memory instead
// of the backing store. The cache is byte-bounded and optionally charges
// cached bytes against a resource.Controller memory budget, so the block
// cache and the rest of the engine share one global limit.
package cache
