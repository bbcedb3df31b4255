package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"time"
)

type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

// Capability probes hit information_schema, which is a metadata round-trip we
// do not want on every grid request. Results are cached process-wide with a
// short TTL so a freshly run migration is picked up without a restart.
const capabilityTTL = 30 * time.Second

var (
	capMu    sync.Mutex
	capCache = map[string]capEntry{}
)

type capEntry struct {
	ok  bool
	exp time.Time
}

func cached(key string) (bool, bool) {
	capMu.Lock()
	defer capMu.Unlock()
	e, ok := capCache[key]
	if !ok || time.Now().After(e.exp) {
		return false, false
	}
	return e.ok, true
}

func store(key string, ok bool) {
	capMu.Lock()
	defer capMu.Unlock()
	capCache[key] = capEntry{ok: ok, exp: time.Now().Add(capabilityTTL)}
}

// ResetCapabilityCache drops all cached probes. Called after migrations and
// from tests.
func ResetCapabilityCache() {
	capMu.Lock()
	defer capMu.Unlock()
	capCache = map[string]capEntry{}
}

func HasTable(q QueryRower, table string) bool {
	key := "t:" + table
	if ok, hit := cached(key); hit {
		return ok
	}

	var name sql.NullString
	err := q.QueryRow(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)

	if err != nil {
		// bad connection -> false without caching, so the next request retries
		if errors.Is(err, driver.ErrBadConn) {
			return false
		}
		store(key, false)
		return false
	}

	ok := name.Valid && name.String != ""
	store(key, ok)
	return ok
}

func HasColumn(q QueryRower, table, column string) bool {
	key := "c:" + table + "." + column
	if ok, hit := cached(key); hit {
		return ok
	}

	var name sql.NullString
	err := q.QueryRow(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`, table, column).Scan(&name)

	if err != nil {
		if errors.Is(err, driver.ErrBadConn) {
			return false
		}
		store(key, false)
		return false
	}

	ok := name.Valid && name.String != ""
	store(key, ok)
	return ok
}
