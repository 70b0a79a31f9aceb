package models

import (
	"fmt"

	c "github.com/Chilfish/anonTweet-sub001/cache"
)

// This file contains the cache key scheme for record payloads. It should
// only contain key building and purging for models; anything else
// belongs in the cache package.

// RecordKind names one of the record families served by the cache
type RecordKind string

// The record kinds the read entry point accepts
const (
	KindPost         RecordKind = "post"
	KindPostReplies  RecordKind = "post-replies"
	KindUserTimeline RecordKind = "user-timeline"
	KindUserProfile  RecordKind = "user-profile"
)

// ValidKind returns true for one of the served record kinds
func ValidKind(kind RecordKind) bool {
	_, ok := mcRecordKeys[kind]
	return ok
}

var mcRecordKeys = map[RecordKind]string{
	KindPost:         "po_%s",
	KindPostReplies:  "re_%s",
	KindUserTimeline: "tl_%s",
	KindUserProfile:  "pr_%s",
}

// Warm-tier entries outlive the in-process TTL so that a restarted
// process still avoids origin calls for hot records.
const mcTTL int32 = 60 * 60 * 24 // 1 day

// RecordCacheKey builds the composite (kind, identifier) key used by
// both the coalescer and the warm tier. Identifiers are opaque and are
// not normalised here; keys compare by exact value equality.
func RecordCacheKey(kind RecordKind, id string) string {
	return fmt.Sprintf(mcRecordKeys[kind], id)
}

// PurgeRecord removes a record from the warm tier
func PurgeRecord(kind RecordKind, id string) {
	c.DeleteRemote(RecordCacheKey(kind, id))
}
