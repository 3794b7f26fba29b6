package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/posjournal?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func newMySQLAdapter(t *testing.T, db *sql.DB) *MySQLAdapter {
	key := "test:" + time.Now().Format("20060102150405.000000000")
	adapter := NewMySQLAdapter(db, key)
	require.NoError(t, adapter.EnsureSchema(context.Background()))
	t.Cleanup(func() {
		db.Exec(`DELETE FROM pos_state WHERE state_key = ?`, key)
	})
	return adapter
}

func TestMySQLAdapter_LoadMissingKey(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()
	adapter := newMySQLAdapter(t, db)

	state, err := adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Sales)

	version, err := adapter.Version(context.Background())
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestMySQLAdapter_SaveBumpsVersion(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()
	adapter := newMySQLAdapter(t, db)
	ctx := context.Background()

	require.NoError(t, adapter.Save(ctx, sampleState()))
	require.NoError(t, adapter.Save(ctx, sampleState()))

	version, err := adapter.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	state, err := adapter.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Sales, 1)
}

func TestMySQLAdapter_MalformedBlob(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()
	adapter := newMySQLAdapter(t, db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO pos_state (state_key, payload) VALUES (?, ?)`, adapter.key, []byte("garbage"))
	require.NoError(t, err)

	_, err = adapter.Load(ctx)
	assert.ErrorIs(t, err, ErrMalformedState)
}
