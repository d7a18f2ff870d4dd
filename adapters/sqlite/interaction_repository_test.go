package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i%len(times)]
		i++
		return t
	}
}

func TestInteractionRepository_AppendThenLoadAll(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "chat_history.db")
	clock := fixedClock(
		time.Date(2024, 3, 1, 9, 30, 15, 500, time.Local),
		time.Date(2024, 3, 1, 9, 31, 0, 0, time.Local),
	)

	repo, err := Open(ctx, path, clock)
	require.NoError(t, err)
	defer repo.Close()

	records, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	first, err := repo.Append(ctx, "total clicks", "The total clicks is 6.")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 09:30:15", first.Timestamp)

	second, err := repo.Append(ctx, "list campaigns", "Campaign types: A, B")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	records, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, *first, records[0])
	assert.Equal(t, *second, records[len(records)-1])
}

func TestInteractionRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat_history.db")
	clock := fixedClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local))

	repo, err := Open(ctx, path, clock)
	require.NoError(t, err)
	_, err = repo.Append(ctx, "hello", "Hello!\nmultiline answer")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := Open(ctx, path, clock)
	require.NoError(t, err)
	defer reopened.Close()

	_, err = reopened.Append(ctx, "bye", "Goodbye!")
	require.NoError(t, err)

	records, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "hello", records[0].Question)
	assert.Equal(t, "Hello!\nmultiline answer", records[0].Answer)
	assert.Equal(t, "bye", records[1].Question)
}

func TestInteractionRepository_DefaultClock(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, filepath.Join(t.TempDir(), "chat.db"), nil)
	require.NoError(t, err)
	defer repo.Close()

	before := time.Now().Truncate(time.Second)
	rec, err := repo.Append(ctx, "q", "a")
	require.NoError(t, err)

	stamped, err := time.ParseInLocation("2006-01-02 15:04:05", rec.Timestamp, time.Local)
	require.NoError(t, err)
	assert.False(t, stamped.Before(before))
}
