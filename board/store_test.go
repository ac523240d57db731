package board_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t, "users")
	defer cleanup()

	err := store.CreateUser(ctx, "alice", "a@x.com", "hash-a")
	if err != nil {
		t.Fatal(err)
	}
	u, err := store.UserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "alice" || u.PasswordHash != "hash-a" || u.ID == 0 {
		t.Fatalf("Unexpected user: %#v", u)
	}
	byID, err := store.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(u, byID) {
		t.Fatalf("Lookup by id should return %v got %v", u, byID)
	}
}

func TestDuplicateUser(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t, "users")
	defer cleanup()

	require.NoError(t, store.CreateUser(ctx, "alice", "a@x.com", "hash"))

	err := store.CreateUser(ctx, "another-alice", "a@x.com", "hash")
	if !errors.Is(err, board.DuplicateUser{Field: "email"}) {
		t.Fatalf("Error should be %v got %v", board.DuplicateUser{Field: "email"}, err)
	}
	err = store.CreateUser(ctx, "alice", "b@x.com", "hash")
	if !errors.Is(err, board.DuplicateUser{Field: "username"}) {
		t.Fatalf("Error should be %v got %v", board.DuplicateUser{Field: "username"}, err)
	}
}

func TestUserNotFound(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t, "users")
	defer cleanup()

	var notFound board.UserNotFound
	_, err := store.UserByEmail(ctx, "nobody@x.com")
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "nobody@x.com", notFound.Email)

	_, err = store.UserByID(ctx, 42)
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, int64(42), notFound.ID)
}

func TestListMessages(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t, "messages")
	defer cleanup()

	require.NoError(t, store.CreateUser(ctx, "alice", "a@x.com", "hash"))
	require.NoError(t, store.CreateUser(ctx, "bob", "b@x.com", "hash"))
	alice, err := store.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	bob, err := store.UserByEmail(ctx, "b@x.com")
	require.NoError(t, err)

	feed, err := store.ListMessages(ctx)
	require.NoError(t, err)
	require.Empty(t, feed)

	for _, m := range []struct {
		content string
		author  int64
	}{
		{"first", alice.ID},
		{"second", bob.ID},
		{"'); drop table messages; --", alice.ID},
	} {
		_, err := store.PostMessage(ctx, m.content, m.author)
		require.NoError(t, err)
	}

	feed, err = store.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	expected := []struct{ content, author string }{
		{"first", "alice"},
		{"second", "bob"},
		{"'); drop table messages; --", "alice"},
	}
	for i, e := range expected {
		require.Equal(t, e.content, feed[i].Content)
		require.Equal(t, e.author, feed[i].AuthorName)
		if i > 0 {
			require.Greater(t, feed[i].ID, feed[i-1].ID, "feed must be in insertion order")
		}
	}

	count, err := store.CountMessages(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestMessageRequiresAuthor(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t, "messages")
	defer cleanup()

	_, err := store.PostMessage(ctx, "orphan", 1000)
	require.Error(t, err)
	count, err := store.CountMessages(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t, "migrate")
	defer cleanup()

	require.NoError(t, store.CreateUser(ctx, "alice", "a@x.com", "hash"))
	require.NoError(t, store.Migrate(ctx))
	_, err := store.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
}
