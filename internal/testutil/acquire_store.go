package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/msgboard/board"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore opens a migrated store inside a temporary directory,
// the returned func closes the store and removes the directory.
func AcquireStore(ctx context.Context, t TestLog, name string) (*board.Store, func()) {
	dir, err := os.MkdirTemp("", "msgboard-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := board.Open(ctx, filepath.Join(dir, name+".db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
