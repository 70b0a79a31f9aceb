package cache

import (
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/golang/glog"
)

var (
	mc      *memcache.Client
	enabled bool
)

// InitCache creates the memcached client and enables the warm-tier
// functions within this package. It is the responsibility of whatever
// has the values for this function (usually main.go shortly after
// reading the config file) to call this. When it is never called every
// warm-tier lookup is a miss and every write is a no-op, which is the
// degraded mode for an environment without memcached.
func InitCache(host string, port int64) {
	mc = memcache.New(fmt.Sprintf("%s:%d", host, port))
	enabled = true
}

// SetRemote puts an opaque record payload into the warm tier. Payloads
// are stored as-is; they are already serialised JSON from the origin.
func SetRemote(key string, payload []byte, timeToLive int32) {
	if !enabled {
		return
	}

	err := mc.Set(
		&memcache.Item{
			Key:        key,
			Value:      payload,
			Expiration: timeToLive, // time in seconds
		},
	)
	if err != nil {
		glog.Errorf("mc.Set() %+v", err)
		return
	}
}

// GetRemote gets the payload for the given key, if it is in the warm
// tier
func GetRemote(key string) ([]byte, bool) {
	if !enabled {
		return nil, false
	}

	item, err := mc.Get(key)
	if err != nil {
		// Cache misses are expected, but other errors are logged.
		if err != memcache.ErrCacheMiss {
			glog.Warningf("mc.Get(key) %+v", err)
		}
		return nil, false
	}

	return item.Value, true
}

// DeleteRemote removes items matching the given key from the warm tier,
// if it is in the warm tier
func DeleteRemote(key string) {
	if !enabled {
		return
	}

	err := mc.Delete(key)
	if err != nil && err != memcache.ErrCacheMiss {
		glog.Warningf("mc.Delete(key) %+v", err)
	}
}
