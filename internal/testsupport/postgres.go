package testsupport

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ideascope/internal/adapters/config"
)

// TestPostgres wraps a live database connection with a transaction that is
// rolled back when the test finishes, so tests never leak rows.
type TestPostgres struct {
	db *sqlx.DB
	tx *sqlx.Tx
	t  *testing.T
}

// NewTestPostgres connects using the environment configuration and opens a
// test transaction. Skips the test when no database is reachable.
func NewTestPostgres(t *testing.T) *TestPostgres {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Skipf("no test configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN())
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		_ = db.Close()
		t.Fatalf("begin test transaction: %v", err)
	}

	return &TestPostgres{db: db, tx: tx, t: t}
}

// Tx returns the transaction to hand to a repository.
func (p *TestPostgres) Tx() *sqlx.Tx {
	return p.tx
}

// Close rolls back the transaction and closes the connection.
func (p *TestPostgres) Close() {
	if err := p.tx.Rollback(); err != nil {
		p.t.Logf("rollback test transaction: %v", err)
	}
	_ = p.db.Close()
}
