package models

import (
	"database/sql"
	"encoding/json"
	"time"

	e "github.com/Chilfish/anonTweet-sub001/errors"
	h "github.com/Chilfish/anonTweet-sub001/helpers"
)

// ProfileRecord is the persisted snapshot of a user profile. There is at
// most one row per username; a write with a new payload overwrites the
// existing one (last-writer-wins), never appends.
type ProfileRecord struct {
	Username string          `json:"username"`
	Profile  json.RawMessage `json:"profile"`
	Updated  time.Time       `json:"updated"`
}

// getProfileRecord fetches the stored snapshot for a username. The bool
// result distinguishes a clean miss from a transport failure.
func getProfileRecord(username string) (ProfileRecord, bool, error) {
	db, err := h.GetConnection()
	if err != nil {
		return ProfileRecord{}, false, err
	}

	var m ProfileRecord
	err = db.QueryRow(`--getProfileRecord
SELECT username
      ,profile
      ,updated
  FROM profiles
 WHERE username = $1`,
		username,
	).Scan(
		&m.Username,
		&m.Profile,
		&m.Updated,
	)
	if err == sql.ErrNoRows {
		return ProfileRecord{}, false, nil
	}
	if err != nil {
		return ProfileRecord{}, false,
			e.Wrap("getProfileRecord", e.Transient, err)
	}

	return m, true, nil
}

// upsertProfileRecord inserts or replaces the snapshot for a username.
// The conflict clause makes the write atomic per key: concurrent writes
// for the same username cannot interleave into a corrupted payload, and
// a duplicate row can never appear.
func upsertProfileRecord(username string, payload json.RawMessage) error {
	db, err := h.GetConnection()
	if err != nil {
		return err
	}

	_, err = db.Exec(`--upsertProfileRecord
INSERT INTO profiles (
    username, profile, updated
) VALUES (
    $1, $2, NOW()
)
ON CONFLICT (username) DO UPDATE
   SET profile = excluded.profile
      ,updated = NOW()`,
		username,
		[]byte(payload),
	)
	if err != nil {
		return e.Wrap("upsertProfileRecord", e.Transient, err)
	}

	return nil
}
