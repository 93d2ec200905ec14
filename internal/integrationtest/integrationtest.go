// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/rs/zerolog"

	_ "github.com/lib/pq"
)

// SetupServer returns a PostgreSQL backed test server that cleans up database after each integration test.
//
// configPath is the relative path to the configs directory holding app.env and the migrations.
func SetupServer(t *testing.T, configPath string) *httpserver.Server {
	config, err := configpkg.Load(configPath)
	if err != nil {
		t.Fatalf(`configpkg.Load(%q) returned error: %v`, configPath, err)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t, config.DBDriver, config.DBSource)

	if config.MigrationURL != "" {
		if err := dbpkg.Migrate(db, "file://"+configPath+"/db/migration"); err != nil {
			t.Fatalf("dbpkg.Migrate returned error: %v", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush flushes all db tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables sql.NullString

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables 
	WHERE table_schema='public' AND table_name <> 'schema_migrations';`

	row := db.QueryRow(query)

	err := row.Scan(&tables)
	if err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if !tables.Valid {
		return
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables.String + " CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB sets up connection with database for testing and then cleans it.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// SetupTX opens a database transaction on the migrated schema for repository tests.
//
// The transaction is rolled back once the test is done, so nothing it writes is kept.
func SetupTX(t *testing.T, configPath string) *sql.Tx {
	t.Helper()

	config, err := configpkg.Load(configPath)
	if err != nil {
		t.Fatalf(`configpkg.Load(%q) returned error: %v`, configPath, err)
	}

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	if err := dbpkg.Migrate(db, "file://"+configPath+"/db/migration"); err != nil {
		t.Fatalf("dbpkg.Migrate returned error: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return tx
}
