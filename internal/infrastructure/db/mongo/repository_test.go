package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
)

// testDatabase connects to MONGO_TEST_URI and returns a throwaway database.
// Tests are skipped when the variable is unset.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	name := fmt.Sprintf("eventhub_test_%d", time.Now().UnixNano())
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func sampleEvent(title string, date time.Time) *domain.Event {
	now := time.Now().UTC()
	return &domain.Event{
		Title:            title,
		Date:             date,
		Time:             "18:00",
		Location:         "Hall A",
		ShortDescription: "short",
		Description:      "long description",
		Image:            "https://example.com/img.png",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	require.NoError(t, EnsureIndexes(ctx, repo))

	u := &domain.User{Username: "alice", PasswordHash: "h", Role: domain.RoleUser, CreatedAt: time.Now()}
	created, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, u)
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "h", found.PasswordHash)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestEventRepository_CRUD(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewEventRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, sampleEvent("Go Meetup", date))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.RegisteredUsers)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", got.Title)
	assert.True(t, got.Date.Equal(date))

	title := "Go Meetup 2"
	updated, err := repo.Update(ctx, created.ID, domain.EventPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Hall A", updated.Location)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrEventNotFound)
}

func TestEventRepository_InvalidIDIsNotFound(t *testing.T) {
	db := testDatabase(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.ErrorIs(t, repo.AddRegistrant(ctx, "not-an-id", "u1"), domain.ErrEventNotFound)
}

func TestEventRepository_ListFiltersAndPages(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Go Basics", "Rust Night", "Advanced GO", "go (beta)"} {
		_, err := repo.Create(ctx, sampleEvent(title, base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	all, total, err := repo.List(ctx, ports.ListEventsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.EqualValues(t, 4, total)
	assert.Equal(t, "Go Basics", all[0].Title)

	gos, total, err := repo.List(ctx, ports.ListEventsFilter{Title: "go"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, gos, 3)

	// Regex metacharacters are matched literally.
	beta, _, err := repo.List(ctx, ports.ListEventsFilter{Title: "(beta)"})
	require.NoError(t, err)
	require.Len(t, beta, 1)
	assert.Equal(t, "go (beta)", beta[0].Title)

	page2, total, err := repo.List(ctx, ports.ListEventsFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page2, 1)
	assert.Equal(t, "go (beta)", page2[0].Title)
}

func TestEventRepository_AddRegistrant(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	created, err := repo.Create(ctx, sampleEvent("Workshop", time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	require.NoError(t, repo.AddRegistrant(ctx, created.ID, "u1"))
	assert.ErrorIs(t, repo.AddRegistrant(ctx, created.ID, "u1"), domain.ErrAlreadyRegistered)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.RegisteredUsers)

	mine, err := repo.ListByRegistrant(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.AddRegistrant(ctx, created.ID, "u2"), domain.ErrEventNotFound)
}

func TestEventRepository_ConcurrentRegistrations(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	created, err := repo.Create(ctx, sampleEvent("Conference", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.AddRegistrant(ctx, created.ID, fmt.Sprintf("user-%d", i))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	// The same subject racing with itself succeeds exactly once.
	dupErrs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dupErrs[i] = repo.AddRegistrant(ctx, created.ID, "racer")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range dupErrs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrAlreadyRegistered))
	}
	assert.Equal(t, 1, ok)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.RegisteredUsers, n+1)
}
