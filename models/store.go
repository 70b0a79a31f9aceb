package models

import (
	"encoding/json"

	h "github.com/Chilfish/anonTweet-sub001/helpers"
)

// pgStore adapts the PostgreSQL tables to the PersistentStore contract.
// All SQL lives with the record types in profiles.go and
// translations.go; this type only carries the availability guard.
type pgStore struct{}

// NewPersistentStore returns the PostgreSQL-backed store. It is safe to
// construct in an environment without a database; Available then reports
// false and the orchestrator bypasses the store transparently.
func NewPersistentStore() PersistentStore {
	return &pgStore{}
}

func (s *pgStore) Available() bool {
	return h.DBAvailable()
}

func (s *pgStore) LookupProfile(
	username string,
) (json.RawMessage, bool, error) {
	m, found, err := getProfileRecord(username)
	if err != nil || !found {
		return nil, false, err
	}

	return m.Profile, true, nil
}

func (s *pgStore) UpsertProfile(
	username string,
	payload json.RawMessage,
) error {
	return upsertProfileRecord(username, payload)
}

func (s *pgStore) LookupTranslatedEntities(
	postID string,
) ([]TranslatedEntity, bool, error) {
	m, found, err := getTranslatedEntityRecord(postID)
	if err != nil || !found {
		return nil, false, err
	}

	return m.Entities, true, nil
}

func (s *pgStore) UpsertTranslatedEntities(
	postID string,
	entities []TranslatedEntity,
) error {
	return upsertTranslatedEntityRecord(postID, entities)
}
