package config

import (
	"fmt"

	"github.com/robfig/config"
)

// DefaultConfigFilePath is the path to the config file when no override
// is given on the command line
const DefaultConfigFilePath string = "/etc/anontweet/api.conf"

// APISection is the [api] section of the config file
const APISection string = "api"

// Config file keys
const (
	Environment = "environment"

	ListenPort = "listen_port"

	DatabaseHost     = "database_host"
	DatabasePort     = "database_port"
	DatabaseName     = "database_database"
	DatabaseUsername = "database_username"
	DatabasePassword = "database_password"

	MemcachedHost = "memcached_host"
	MemcachedPort = "memcached_port"

	OriginBaseURL     = "origin_base_url"
	OriginBearerToken = "origin_bearer_token"

	CacheTTLSeconds = "cache_ttl_seconds"

	LinkExpansion = "link_expansion"

	MediaEndpoint  = "media_endpoint"
	MediaAccessKey = "media_access_key"
	MediaSecretKey = "media_secret_key"
	MediaBucket    = "media_bucket"
	MediaUseTLS    = "media_use_tls"
)

// The upstream source is the only collaborator the process cannot run
// without. The database, memcached and the media bucket are optional
// tiers: a missing key leaves that tier switched off.
var configRequiredStrings = []string{
	Environment,
	OriginBaseURL,
}

var configRequiredInt64s = []string{
	ListenPort,
}

var configOptionalStrings = []string{
	DatabaseHost,
	DatabaseName,
	DatabasePassword,
	DatabaseUsername,
	MemcachedHost,
	OriginBearerToken,
	MediaEndpoint,
	MediaAccessKey,
	MediaSecretKey,
	MediaBucket,
}

var configOptionalInt64s = []string{
	DatabasePort,
	MemcachedPort,
	CacheTTLSeconds,
}

var configOptionalBools = []string{
	LinkExpansion,
	MediaUseTLS,
}

// ConfigStrings contains the string values for the given config keys
var ConfigStrings = map[string]string{}

// ConfigInt64s contains the int64 values for the given config keys
var ConfigInt64s = map[string]int64{}

// ConfigBool contains the bool values for the given config keys
var ConfigBool = map[string]bool{}

// Load reads the config file and populates the package maps. Unlike the
// required keys, optional keys that are absent are simply skipped so
// that the process can start in degraded mode.
func Load(path string) error {
	c, err := config.ReadDefault(path)
	if err != nil {
		return fmt.Errorf("could not read config file %s: %v", path, err)
	}

	for _, key := range configRequiredStrings {
		s, err := c.String(APISection, key)
		if err != nil {
			return fmt.Errorf("required config key %s: %v", key, err)
		}
		ConfigStrings[key] = s
	}

	for _, key := range configRequiredInt64s {
		ii, err := c.Int(APISection, key)
		if err != nil {
			return fmt.Errorf("required config key %s: %v", key, err)
		}
		ConfigInt64s[key] = int64(ii)
	}

	for _, key := range configOptionalStrings {
		if s, err := c.String(APISection, key); err == nil {
			ConfigStrings[key] = s
		}
	}

	for _, key := range configOptionalInt64s {
		if ii, err := c.Int(APISection, key); err == nil {
			ConfigInt64s[key] = int64(ii)
		}
	}

	for _, key := range configOptionalBools {
		if b, err := c.Bool(APISection, key); err == nil {
			ConfigBool[key] = b
		}
	}

	return nil
}

// DatabaseConfigured returns true when every database key is present.
// A partially configured database is treated as not configured at all.
func DatabaseConfigured() bool {
	for _, key := range []string{
		DatabaseHost,
		DatabaseName,
		DatabaseUsername,
		DatabasePassword,
	} {
		if _, ok := ConfigStrings[key]; !ok {
			return false
		}
	}
	_, ok := ConfigInt64s[DatabasePort]
	return ok
}

// MemcachedConfigured returns true when the memcached keys are present
func MemcachedConfigured() bool {
	_, host := ConfigStrings[MemcachedHost]
	_, port := ConfigInt64s[MemcachedPort]
	return host && port
}

// MediaConfigured returns true when every media storage key is present
func MediaConfigured() bool {
	for _, key := range []string{
		MediaEndpoint,
		MediaAccessKey,
		MediaSecretKey,
		MediaBucket,
	} {
		if _, ok := ConfigStrings[key]; !ok {
			return false
		}
	}
	return true
}
