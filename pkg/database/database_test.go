package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(context.Background(), `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, code TEXT UNIQUE)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantTarget string
		wantOK     bool
	}{
		{"nil", nil, "", false},
		{"plain", errors.New("boom"), "", false},
		{"postgres unique", &pgconn.PgError{Code: "23505", ConstraintName: "spools_tracking_id_key"}, "spools_tracking_id_key", true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, "", false},
		{"sqlite message", pkgerrors.Wrap(errors.New("constraint failed: UNIQUE constraint failed: spools.tracking_id (2067)"), "create spool"), "spools.tracking_id", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := UniqueViolation(tt.err)
			if ok != tt.wantOK || target != tt.wantTarget {
				t.Errorf("UniqueViolation() = (%q, %v), want (%q, %v)", target, ok, tt.wantTarget, tt.wantOK)
			}
		})
	}
}

func TestUniqueViolationFromDriver(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec(ctx, `INSERT INTO items (code) VALUES (?)`, "A"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := db.Exec(ctx, `INSERT INTO items (code) VALUES (?)`, "A")
	target, ok := UniqueViolation(err)
	if !ok || target != "items.code" {
		t.Errorf("UniqueViolation() = (%q, %v) for %v", target, ok, err)
	}
}

func TestWithinTx(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := db.WithinTx(ctx, func(ctx context.Context) error {
		if !InTx(ctx) {
			t.Error("InTx() = false inside WithinTx")
		}
		if _, err := db.Exec(ctx, `INSERT INTO items (code) VALUES (?)`, "rolled-back"); err != nil {
			return err
		}
		return db.WithinTx(ctx, func(ctx context.Context) error {
			return errBoom
		})
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("WithinTx() error = %v", err)
	}

	var n int
	if _, err := db.Get(ctx, &n, `SELECT COUNT(*) FROM items`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rows after rollback = %d, want 0", n)
	}

	err = db.WithinTx(ctx, func(ctx context.Context) error {
		_, err := db.InsertReturningID(ctx, `INSERT INTO items (code) VALUES (:code)`, map[string]interface{}{"code": "kept"})
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx() commit error = %v", err)
	}

	var code string
	found, err := db.Get(ctx, &code, `SELECT code FROM items WHERE code = ?`, "kept")
	if err != nil || !found {
		t.Errorf("committed row found = %v, err = %v", found, err)
	}
	found, err = db.Get(ctx, &code, `SELECT code FROM items WHERE code = ?`, "missing")
	if err != nil || found {
		t.Errorf("missing row found = %v, err = %v", found, err)
	}
}
