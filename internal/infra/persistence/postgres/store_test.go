package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customerdesk/internal/infra/persistence/postgres/testutil"
	"customerdesk/pkg/domain"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	var gotDriver, gotDSN string
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dsn
		return db, nil
	})
	t.Cleanup(restore)
	store, err := New(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, DefaultDSN, gotDSN)
	return store, conn
}

func TestNewEnsuresStateTable(t *testing.T) {
	store, conn := newStubStore(t)
	require.NotEmpty(t, conn.Execs)
	assert.Contains(t, strings.ToUpper(conn.Execs[0]), "CREATE TABLE IF NOT EXISTS CUSTOMER_STATE")
	assert.Equal(t, domain.StoragePostgres, store.Driver())
	assert.NotNil(t, store.DB())
}

func TestLoadWithoutRowIsEmpty(t *testing.T) {
	store, _ := newStubStore(t)
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	want := []domain.Customer{
		{FirstName: "Bob", LastName: "Adams", Age: 41, ID: 2},
		{FirstName: "Ann", LastName: "Smith", Age: 30, ID: 1},
	}
	require.NoError(t, store.Save(ctx, want[1:]))
	require.NoError(t, store.Save(ctx, want))
	require.Len(t, conn.Tables["customer_state"], 1)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadCorruptPayload(t *testing.T) {
	store, conn := newStubStore(t)
	conn.Tables["customer_state"] = []map[string]any{{"bucket": "customers", "payload": []byte(`{"id":1}`)}}
	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorrupt)
}

func TestLoadQueryFailure(t *testing.T) {
	store, conn := newStubStore(t)
	conn.FailTables = map[string]bool{"customer_state": true}
	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorrupt)
}

func TestSaveFailures(t *testing.T) {
	cases := map[string]func(*testutil.StubConn){
		"begin":  func(c *testutil.StubConn) { c.FailBegin = true },
		"exec":   func(c *testutil.StubConn) { c.FailTables = map[string]bool{"customer_state": true} },
		"commit": func(c *testutil.StubConn) { c.FailCommit = true },
	}
	for name, arm := range cases {
		t.Run(name, func(t *testing.T) {
			store, conn := newStubStore(t)
			arm(conn)
			err := store.Save(context.Background(), []domain.Customer{{FirstName: "Ann", LastName: "Smith", Age: 30, ID: 1}})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrWrite)
		})
	}
}

func TestNewFailures(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") })
		defer restore()
		_, err := New(context.Background(), "postgres://example")
		assert.ErrorContains(t, err, "open postgres")
	})
	t.Run("ping", func(t *testing.T) {
		db, conn := testutil.NewStubDB()
		conn.FailPing = true
		restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
		defer restore()
		_, err := New(context.Background(), "postgres://example")
		assert.ErrorContains(t, err, "ping postgres")
	})
	t.Run("ddl", func(t *testing.T) {
		db, conn := testutil.NewStubDB()
		conn.FailExec = true
		restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
		defer restore()
		_, err := New(context.Background(), "postgres://example")
		assert.ErrorContains(t, err, "ensure state table")
	})
}
