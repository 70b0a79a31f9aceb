package models

import (
	"database/sql"
	"encoding/json"
	"time"

	e "github.com/Chilfish/anonTweet-sub001/errors"
	h "github.com/Chilfish/anonTweet-sub001/helpers"
)

// TranslatedEntity maps one rich-text entity inside a post to its
// translated text. Entity identifiers are opaque to this core; the
// surrounding application decides what they address within the post.
type TranslatedEntity struct {
	EntityID string `json:"id"`
	Text     string `json:"text"`
}

// TranslatedEntityRecord is the persisted translation set for one post.
// At most one row per post identifier; a write always supplies the
// complete desired set, which replaces the stored one in full.
type TranslatedEntityRecord struct {
	PostID   string             `json:"postId"`
	Entities []TranslatedEntity `json:"entities"`
	Updated  time.Time          `json:"updated"`
}

// getTranslatedEntityRecord fetches the stored set for a post. The bool
// result distinguishes a clean miss from a transport failure.
func getTranslatedEntityRecord(
	postID string,
) (TranslatedEntityRecord, bool, error) {
	db, err := h.GetConnection()
	if err != nil {
		return TranslatedEntityRecord{}, false, err
	}

	var (
		m   TranslatedEntityRecord
		raw []byte
	)
	err = db.QueryRow(`--getTranslatedEntityRecord
SELECT post_id
      ,entities
      ,updated
  FROM translated_entities
 WHERE post_id = $1`,
		postID,
	).Scan(
		&m.PostID,
		&raw,
		&m.Updated,
	)
	if err == sql.ErrNoRows {
		return TranslatedEntityRecord{}, false, nil
	}
	if err != nil {
		return TranslatedEntityRecord{}, false,
			e.Wrap("getTranslatedEntityRecord", e.Transient, err)
	}

	if err := json.Unmarshal(raw, &m.Entities); err != nil {
		return TranslatedEntityRecord{}, false,
			e.Wrap("getTranslatedEntityRecord", e.Transient, err)
	}

	return m, true, nil
}

// upsertTranslatedEntityRecord inserts or replaces the set for a post.
// The conflict clause replaces the existing row's payload for a matching
// key, never appending duplicate rows, and is atomic per key.
func upsertTranslatedEntityRecord(
	postID string,
	entities []TranslatedEntity,
) error {
	db, err := h.GetConnection()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entities)
	if err != nil {
		return e.Wrap("upsertTranslatedEntityRecord", e.Transient, err)
	}

	_, err = db.Exec(`--upsertTranslatedEntityRecord
INSERT INTO translated_entities (
    post_id, entities, updated
) VALUES (
    $1, $2, NOW()
)
ON CONFLICT (post_id) DO UPDATE
   SET entities = excluded.entities
      ,updated = NOW()`,
		postID,
		raw,
	)
	if err != nil {
		return e.Wrap("upsertTranslatedEntityRecord", e.Transient, err)
	}

	return nil
}
