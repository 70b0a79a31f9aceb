package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang/glog"

	c "github.com/Chilfish/anonTweet-sub001/cache"
	e "github.com/Chilfish/anonTweet-sub001/errors"
)

// OriginClient fetches a record by identifier from the upstream source.
// It fails with a NotFound taxonomy error when the upstream confirms
// absence, or a Transient one for network and rate-limit conditions.
type OriginClient interface {
	Fetch(ctx context.Context, kind RecordKind, id string) (json.RawMessage, error)
}

// PersistentStore is the durable tier: a pair of typed tables with
// unique-key upsert semantics. Lookup distinguishes absence from
// transport failure so that callers can fall through to the origin on
// the former and treat the latter as unavailable-for-this-call.
type PersistentStore interface {
	Available() bool

	LookupProfile(username string) (json.RawMessage, bool, error)
	UpsertProfile(username string, payload json.RawMessage) error

	LookupTranslatedEntities(postID string) ([]TranslatedEntity, bool, error)
	UpsertTranslatedEntities(postID string, entities []TranslatedEntity) error
}

// RecordCache composes the coalescer, the warm tier, the persistent
// store and the origin into the read path, and exposes the direct write
// path for translated entity sets.
//
// Reads prefer persistent truth over origin freshness: once a value
// exists in the persistent store it is served without consulting the
// origin again. The underlying source records are immutable once
// fetched, so this is a staleness-for-cost tradeoff, not a bug.
type RecordCache struct {
	coalescer *c.Coalescer
	origin    OriginClient
	store     PersistentStore

	expander *LinkExpander
	mirror   *MediaMirror
}

// NewRecordCache wires the orchestrator. The coalescer is constructed
// once at process start and handed in by reference; it is the only
// mutable shared state in this core and it stays owned by the cache
// package, never mutated directly here. store may be nil in an
// environment without a database.
func NewRecordCache(
	coalescer *c.Coalescer,
	origin OriginClient,
	store PersistentStore,
) *RecordCache {
	return &RecordCache{
		coalescer: coalescer,
		origin:    origin,
		store:     store,
	}
}

// SetLinkExpander enables best-effort shortened-link expansion on
// fetched post payloads
func (rc *RecordCache) SetLinkExpander(x *LinkExpander) {
	rc.expander = x
}

// SetMediaMirror enables best-effort media mirroring on fetched payloads
func (rc *RecordCache) SetMediaMirror(m *MediaMirror) {
	rc.mirror = m
}

// Get is the read entry point. For a fresh in-process entry it returns
// without any I/O; otherwise exactly one fetch per key runs the tiered
// lookup (persistent store, warm tier, origin, with write-back) and
// every concurrent caller for that key shares its outcome. ctx bounds
// only this caller's wait, never the shared fetch.
func (rc *RecordCache) Get(
	ctx context.Context,
	kind RecordKind,
	id string,
) (json.RawMessage, error) {
	if !ValidKind(kind) {
		return nil, e.New("RecordCache.Get", e.NotFound,
			fmt.Sprintf("unknown record kind: %s", kind))
	}
	if id == "" {
		return nil, e.New("RecordCache.Get", e.NotFound,
			"record identifier is required")
	}

	val, err := rc.coalescer.Get(ctx, RecordCacheKey(kind, id),
		func() (interface{}, error) {
			return rc.fill(kind, id)
		},
	)
	if err != nil {
		return nil, err
	}

	return val.(json.RawMessage), nil
}

// fill is the composite fetch run under the coalescer: at most one
// instance per key is in flight at any time.
func (rc *RecordCache) fill(
	kind RecordKind,
	id string,
) (json.RawMessage, error) {
	// The shared fetch serves every joiner, so it must not run on any
	// single caller's context.
	ctx := context.Background()

	persisted := kind == KindUserProfile

	if persisted && rc.store != nil && rc.store.Available() {
		payload, found, err := rc.store.LookupProfile(id)
		if err != nil {
			// The store went away after startup. Degraded for this
			// call only; the availability guard is not flipped.
			glog.Warningf("store.LookupProfile(%s) %+v", id, err)
		} else if found && len(payload) > 0 {
			// Already-durable truth; no TTL refresh needed beyond the
			// coalescer's own window.
			return payload, nil
		}
	}

	if !persisted {
		if payload, ok := c.GetRemote(RecordCacheKey(kind, id)); ok {
			return json.RawMessage(payload), nil
		}
	}

	payload, err := rc.origin.Fetch(ctx, kind, id)
	if err != nil {
		// NotFound included: failures are never cached and never
		// persisted, so the next caller retries against the origin.
		return nil, err
	}

	if kind == KindPost && rc.expander != nil {
		payload = rc.expander.ExpandPost(ctx, payload)
	}

	// Write-back is best effort: failing to populate a tier is logged
	// and the in-memory result is still returned and still cached.
	if persisted {
		if rc.store != nil && rc.store.Available() {
			if err := rc.store.UpsertProfile(id, payload); err != nil {
				glog.Errorf("store.UpsertProfile(%s) %+v", id, err)
			}
		}
	} else {
		c.SetRemote(RecordCacheKey(kind, id), payload, mcTTL)
	}

	if rc.mirror != nil {
		go rc.mirror.MirrorRecord(kind, payload)
	}

	return payload, nil
}

// GetTranslatedEntities reads a persisted translated entity set. There
// is no coalescing and no origin behind this path: the store is the only
// source of translations.
func (rc *RecordCache) GetTranslatedEntities(
	postID string,
) ([]TranslatedEntity, error) {
	if rc.store == nil || !rc.store.Available() {
		return nil, e.New("GetTranslatedEntities", e.Transient,
			"persistent store is not available")
	}

	entities, found, err := rc.store.LookupTranslatedEntities(postID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, e.New("GetTranslatedEntities", e.NotFound,
			fmt.Sprintf("no translations for post %s", postID))
	}

	return entities, nil
}

// PutTranslatedEntities is the write entry point. It bypasses the
// coalescer and upserts synchronously; the caller always supplies the
// complete desired entity set for the post, which replaces any existing
// row. A store failure is surfaced unmodified: there is no fallback for
// an explicit write.
func (rc *RecordCache) PutTranslatedEntities(
	postID string,
	entities []TranslatedEntity,
) error {
	if rc.store == nil || !rc.store.Available() {
		return e.New("PutTranslatedEntities", e.Transient,
			"persistent store is not available")
	}

	if err := rc.store.UpsertTranslatedEntities(postID, entities); err != nil {
		return err
	}

	// A rendered post may embed its translations; make sure the next
	// read for the post observes the new set. The warm tier holds a
	// copy of the post too, so both entries go.
	rc.coalescer.Delete(RecordCacheKey(KindPost, postID))
	PurgeRecord(KindPost, postID)

	return nil
}
