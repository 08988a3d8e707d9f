package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoDatabaseName(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost:27017/journal":                       "journal",
		"mongodb+srv://u:p@cluster.example.net/diary?retryWrites": "diary",
		"mongodb://localhost:27017":                               "lifestory",
		"mongodb://localhost:27017/?tls=true":                     "lifestory",
	}
	for uri, want := range cases {
		assert.Equal(t, want, mongoDatabaseName(uri), uri)
	}
}

func TestConnectSQLiteCreatesSchema(t *testing.T) {
	db, err := ConnectSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='journal_entries'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "journal_entries", name)

	// Re-running the schema is harmless.
	assert.NoError(t, InitSQLiteTables(db))
}
