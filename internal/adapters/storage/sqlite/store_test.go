package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotedeck/internal/domain"
)

func openTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"), maxEntries)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open("", 10)
	assert.Error(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "x.db"), 0)
	assert.Error(t, err)
}

func TestOpen_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o600))

	store, err := Open(path, 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)

	// The unreadable file is kept aside rather than silently destroyed.
	moved, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "not a database", string(moved))

	// The fresh database is fully usable.
	require.NoError(t, store.Record(ctx, domain.NewQuote("Know thyself.", "Socrates")))

	size, err = store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestStore_RecordAndSample(t *testing.T) {
	store := openTestStore(t, 10)
	ctx := context.Background()

	quote := domain.NewQuote("The obstacle is the way.", "Marcus Aurelius")
	require.NoError(t, store.Record(ctx, quote))

	got, err := store.SampleOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, quote.Text, got.Text)
	assert.Equal(t, quote.Author, got.Author)
}

func TestStore_SampleEmptyCache(t *testing.T) {
	store := openTestStore(t, 10)

	got, err := store.SampleOne(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrNoQuote)
}

func TestStore_RecordDeduplicatesByText(t *testing.T) {
	store := openTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.NewQuote("Know thyself.", "Socrates")))
	// Same words, different attribution: still the same quote.
	require.NoError(t, store.Record(ctx, domain.NewQuote("Know thyself.", "Plato")))

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	got, err := store.SampleOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Socrates", got.Author, "first writer wins")
}

func TestStore_RecordEvictsOldestWhenFull(t *testing.T) {
	const maxEntries = 5
	store := openTestStore(t, maxEntries)
	ctx := context.Background()

	for i := 0; i < maxEntries+3; i++ {
		quote := domain.NewQuote(fmt.Sprintf("quote number %d", i), "A")
		require.NoError(t, store.Record(ctx, quote))
	}

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, maxEntries, size)

	// The three oldest entries must be gone; the newest must remain.
	for i := 0; i < 3; i++ {
		assert.False(t, storeContains(t, store, fmt.Sprintf("quote number %d", i)))
	}
	for i := 3; i < maxEntries+3; i++ {
		assert.True(t, storeContains(t, store, fmt.Sprintf("quote number %d", i)))
	}
}

func storeContains(t *testing.T, store *Store, text string) bool {
	t.Helper()

	var count int
	err := store.sqlDB.QueryRow(`SELECT COUNT(*) FROM quotes WHERE text = ?`, text).Scan(&count)
	require.NoError(t, err)

	return count > 0
}

func TestStore_RecordRejectsEmptyText(t *testing.T) {
	store := openTestStore(t, 10)

	err := store.Record(context.Background(), domain.Quote{Text: "", Author: "A"})
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.NewQuote("one", "A")))
	require.NoError(t, store.Record(ctx, domain.NewQuote("two", "B")))

	require.NoError(t, store.Clear(ctx))

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	store, err := Open(path, 10)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, domain.NewQuote("durable words", "C")))
	require.NoError(t, store.Close())

	reopened, err := Open(path, 10)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.SampleOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, "durable words", got.Text)
}

func TestStore_FavoriteAddRemoveList(t *testing.T) {
	store := openTestStore(t, 10)
	ctx := context.Background()

	quote := domain.NewQuote("Kept words.", "D")
	fav, err := store.Add(ctx, quote)
	require.NoError(t, err)
	assert.Equal(t, quote.Text, fav.Text)
	assert.False(t, fav.AddedAt.IsZero())

	favorites, total, err := store.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Kept words.", favorites[0].Text)

	require.NoError(t, store.Remove(ctx, quote.Text))

	_, total, err = store.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_FavoriteAddIsIdempotent(t *testing.T) {
	store := openTestStore(t, 10)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	first, err := store.Add(ctx, domain.NewQuote("same words", "E"))
	require.NoError(t, err)

	current = current.Add(time.Hour)

	second, err := store.Add(ctx, domain.NewQuote("same words", "E"))
	require.NoError(t, err)
	assert.Equal(t, first.AddedAt, second.AddedAt, "re-adding must not refresh the timestamp")

	_, total, err := store.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestStore_FavoriteRemoveMissing(t *testing.T) {
	store := openTestStore(t, 10)

	err := store.Remove(context.Background(), "never added")
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_FavoriteListPagination(t *testing.T) {
	store := openTestStore(t, 10)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		offset := time.Duration(i) * time.Minute
		store.now = func() time.Time { return base.Add(offset) }
		_, err := store.Add(ctx, domain.NewQuote(fmt.Sprintf("favorite %d", i), "F"))
		require.NoError(t, err)
	}

	page, total, err := store.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "favorite 4", page[0].Text, "newest first")
	assert.Equal(t, "favorite 3", page[1].Text)

	page, _, err = store.List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "favorite 0", page[0].Text)
}

func TestStore_CheckHealth(t *testing.T) {
	store := openTestStore(t, 10)

	status := store.CheckHealth(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, "sqlite", status.Name)
}
