package helpers

import (
	"database/sql"
	"fmt"

	"github.com/golang/glog"

	e "github.com/Chilfish/anonTweet-sub001/errors"
)

var (
	db          *sql.DB
	dbAvailable bool
)

// DBConfig stores the connection information used by InitDBConnection to
// establish a connection to the database
type DBConfig struct {
	Host     string
	Port     int64
	Database string
	Username string
	Password string
}

// InitDBConnection establishes the connection to the database and probes
// it once. A failure here is a configuration error, not a fatal one: the
// caller is expected to continue in degraded mode with the persistent
// tier switched off.
func InitDBConnection(c DBConfig) error {
	var err error
	db, err = sql.Open(
		"postgres",
		fmt.Sprintf(
			"user=%s dbname=%s host=%s port=%d password=%s sslmode=%s",
			c.Username,
			c.Database,
			c.Host,
			c.Port,
			c.Password,
			"disable",
		),
	)
	if err != nil {
		return e.Wrap("InitDBConnection", e.Configuration, err)
	}

	if err = db.Ping(); err != nil {
		return e.Wrap("InitDBConnection", e.Configuration, err)
	}

	// Stay comfortably below the PostgreSQL default of 100 so that
	// monitoring apps and migrations can still connect.
	db.SetMaxOpenConns(20)

	dbAvailable = true

	if glog.V(2) {
		glog.Infof("Database connection established to %s:%d", c.Host, c.Port)
	}

	return nil
}

// DBAvailable reports whether the persistent store was configured and
// reachable at process start. It is computed once and never re-probed;
// a store that goes away mid-process surfaces as per-call errors which
// callers treat as unavailable-for-that-call.
func DBAvailable() bool {
	return dbAvailable
}

// GetConnection returns a connection from the connection pool of the
// already instantiated db object
func GetConnection() (*sql.DB, error) {
	if !dbAvailable {
		return nil, e.New("GetConnection", e.Configuration,
			"persistent store is not available")
	}

	return db, nil
}
