package cache

import "testing"

// Without InitCache the warm tier is disabled and every operation is a
// no-op. A process run without memcached configured takes this path for
// its whole lifetime.
func TestWarmTierDisabledWithoutInit(t *testing.T) {
	SetRemote("po_1", []byte(`{"id":"1"}`), 60)

	if payload, ok := GetRemote("po_1"); ok {
		t.Errorf("disabled tier returned a hit: %s", payload)
	}

	// Must not panic
	DeleteRemote("po_1")
}
