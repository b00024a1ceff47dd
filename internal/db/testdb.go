package db

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// OpenTest returns an isolated, migrated in-memory database and points the
// package-level DB at it for the duration of the test.
func OpenTest(t *testing.T) *gorm.DB {
	t.Helper()

	// A distinct shared-cache name per test keeps gorm's connection pool on
	// the same in-memory database without leaking state across tests.
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(g); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	prev := DB
	DB = g
	t.Cleanup(func() {
		DB = prev
		if conn, err := g.DB(); err == nil {
			conn.Close()
		}
	})
	return g
}
