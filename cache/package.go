/*
Package cache provides the two fast tiers that sit in front of the
persistent store and the origin: a per-process request coalescer that
deduplicates concurrent fetches for the same key and applies a TTL to
successful results, and an optional memcached warm tier that survives
process restarts.

Eventual consistency of the cached items is promised, but nothing more.
*/
package cache
