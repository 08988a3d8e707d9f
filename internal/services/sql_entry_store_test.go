package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/lifestory-backend/internal/database"
	"github.com/AnshRaj112/lifestory-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func newTestStore(t *testing.T) *SQLEntryStore {
	t.Helper()
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteEntryStore(db)
}

// storesUnderTest always includes SQLite and adds PostgreSQL when TEST_POSTGRES_URI is set.
func storesUnderTest(t *testing.T) map[string]*SQLEntryStore {
	stores := map[string]*SQLEntryStore{"sqlite": newTestStore(t)}
	if uri := os.Getenv("TEST_POSTGRES_URI"); uri != "" {
		db, err := database.ConnectPostgres(uri)
		require.NoError(t, err)
		_, err = db.Exec(`TRUNCATE journal_entries`)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		stores["postgres"] = NewPostgresEntryStore(db)
	}
	return stores
}

func TestSQLEntryStore_Save(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			first, err := store.Save(ctx, "2024-03-01", strPtr("first draft"), []string{" /uploads/a.png ", "", "  "})
			require.NoError(t, err)
			assert.Equal(t, []string{"/uploads/a.png"}, first.ImagePaths)

			second, err := store.Save(ctx, "2024-03-01", strPtr("final"), []string{"/uploads/b.png"})
			require.NoError(t, err)
			assert.Equal(t, first.ID, second.ID, "saving the same date updates in place")

			got, found, err := store.GetByDate(ctx, "2024-03-01")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "final", got.Text())
			assert.Equal(t, []string{"/uploads/b.png"}, got.ImagePaths)

			all, err := store.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestSQLEntryStore_SaveValidation(t *testing.T) {
	store := newTestStore(t)
	for _, date := range []string{"", "   ", "03/01/2024", "2024-13-01"} {
		_, err := store.Save(context.Background(), date, strPtr("x"), nil)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "date %q: got %v", date, err)
	}
}

func TestSQLEntryStore_SaveStorageError(t *testing.T) {
	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)
	store := NewSQLiteEntryStore(db)
	require.NoError(t, db.Close())

	_, err = store.Save(context.Background(), "2024-01-01", nil, nil)
	var serr *StorageError
	require.True(t, errors.As(err, &serr), "got %v", err)
}

func TestSQLEntryStore_GetByDateNotFound(t *testing.T) {
	store := newTestStore(t)
	entry, found, err := store.GetByDate(context.Background(), "1999-01-01")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, entry)
}

func TestSQLEntryStore_NullContent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.Save(ctx, "2024-05-05", nil, []string{"/uploads/only.png"})
	require.NoError(t, err)

	got, found, err := store.GetByDate(ctx, "2024-05-05")
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, got.Content)
	assert.Equal(t, "", got.Text())
}

func TestSQLEntryStore_ListAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	long := strings.Repeat("a", 101)
	_, err := store.Save(ctx, "2024-01-02", strPtr(long), []string{"/uploads/1.png", "/uploads/2.png"})
	require.NoError(t, err)
	_, err = store.Save(ctx, "2024-02-01", nil, nil)
	require.NoError(t, err)
	_, err = store.Save(ctx, "2023-12-31", strPtr("short"), nil)
	require.NoError(t, err)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.EntrySummary{
		{Date: "2024-02-01", Snippet: "No text content.", ImageCount: 0},
		{Date: "2024-01-02", Snippet: strings.Repeat("a", 100) + "...", ImageCount: 2},
		{Date: "2023-12-31", Snippet: "short", ImageCount: 0},
	}, all)
}

func TestSQLEntryStore_RangeQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, d := range []string{"2024-01-10", "2023-12-31", "2024-01-01", "2024-01-05", "2024-01-11"} {
		_, err := store.Save(ctx, d, strPtr("entry "+d), nil)
		require.NoError(t, err)
	}

	entries, err := store.RangeQuery(ctx, "2024-01-01", "2024-01-10")
	require.NoError(t, err)

	var dates []string
	for _, e := range entries {
		dates = append(dates, e.Date)
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-05", "2024-01-10"}, dates)

	t.Run("inverted range is empty", func(t *testing.T) {
		entries, err := store.RangeQuery(ctx, "2024-02-01", "2024-01-01")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("both bounds required", func(t *testing.T) {
		_, err := store.RangeQuery(ctx, "", "2024-01-01")
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "fromDate", verr.Field)

		_, err = store.RangeQuery(ctx, "2024-01-01", "")
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "toDate", verr.Field)
	})
}

func TestSQLEntryStore_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		stats, err := newTestStore(t).Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalEntries)
		assert.Equal(t, int64(0), stats.TotalCharactersWritten)
		assert.Empty(t, stats.EntriesPerMonth)
		assert.NotNil(t, stats.EntriesPerMonth)
		assert.Equal(t, "-", stats.MostActiveMonth)
	})

	t.Run("aggregates and tie break", func(t *testing.T) {
		store := newTestStore(t)
		saves := map[string]*string{
			"2024-02-03": strPtr("héllo"),
			"2024-02-09": nil,
			"2024-01-15": strPtr("abc"),
			"2024-01-20": strPtr(""),
			"2023-11-01": strPtr("z"),
		}
		for d, c := range saves {
			_, err := store.Save(ctx, d, c, nil)
			require.NoError(t, err)
		}

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, stats.TotalEntries)
		assert.Equal(t, int64(9), stats.TotalCharactersWritten)
		assert.Equal(t, []models.MonthCount{
			{Month: "2023-11", Count: 1},
			{Month: "2024-01", Count: 2},
			{Month: "2024-02", Count: 2},
		}, stats.EntriesPerMonth)
		assert.Equal(t, "2024-01", stats.MostActiveMonth)
	})
}

func TestSQLEntryStore_StatsConsistentUnderWrites(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			done := make(chan error, 1)
			go func() {
				start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				for i := 0; i < 60; i++ {
					date := start.AddDate(0, 0, i).Format("2006-01-02")
					if _, err := store.Save(ctx, date, strPtr("entry"), nil); err != nil {
						done <- err
						return
					}
				}
				done <- nil
			}()

			for i := 0; i < 30; i++ {
				stats, err := store.Stats(ctx)
				require.NoError(t, err)
				sum := 0
				for _, m := range stats.EntriesPerMonth {
					sum += m.Count
				}
				assert.Equal(t, stats.TotalEntries, sum)
				assert.Equal(t, int64(5*stats.TotalEntries), stats.TotalCharactersWritten)
			}
			require.NoError(t, <-done)
		})
	}
}

func TestSQLEntryStore_StatsStorageError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.db.Close())

	_, err := store.Stats(context.Background())
	var serr *StorageError
	assert.True(t, errors.As(err, &serr))
}

func TestJSONPathsScan(t *testing.T) {
	var p jsonPaths
	require.NoError(t, p.Scan(`["/a","/b"]`))
	assert.Equal(t, jsonPaths{"/a", "/b"}, p)
	require.NoError(t, p.Scan([]byte(`[]`)))
	assert.Empty(t, p)
	require.NoError(t, p.Scan(nil))
	assert.Nil(t, p)
	assert.Error(t, p.Scan(42))
}

func TestDollarPlaceholders(t *testing.T) {
	assert.Equal(t, "a = $1 AND b <= $2", dollarPlaceholders("a = ? AND b <= ?"))
}
