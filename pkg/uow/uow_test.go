package uow

import (
	"testing"

	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/runtime"
)

type testGenre struct {
	ID   int64  `db:"id,primaryKey,serial"`
	Name string `db:"name,unique,notNull"`
}

type testAlbum struct {
	ID    int64  `db:"id,primaryKey,serial"`
	Title string `db:"title,notNull"`
}

func TestRepoMemoization(t *testing.T) {
	u := New(builder.New(&runtime.DB{}))

	first, err := Repo[testGenre](u)
	if err != nil {
		t.Fatalf("Repo() error = %v", err)
	}
	second, err := Repo[testGenre](u)
	if err != nil {
		t.Fatalf("Repo() error = %v", err)
	}

	if first != second {
		t.Error("Repo() should return the same instance for the same type")
	}
}

func TestRepoPerType(t *testing.T) {
	u := New(builder.New(&runtime.DB{}))

	genres, err := Repo[testGenre](u)
	if err != nil {
		t.Fatalf("Repo[testGenre]() error = %v", err)
	}
	albums, err := Repo[testAlbum](u)
	if err != nil {
		t.Fatalf("Repo[testAlbum]() error = %v", err)
	}

	genres.Add(testGenre{Name: "Jazz"})

	if albums.Pending() != 0 {
		t.Error("staging on one repository leaked into another")
	}
	if u.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", u.Pending())
	}
}

func TestSaveNothingStaged(t *testing.T) {
	// The pool is nil, so any store round trip would fail; a save with
	// nothing staged must not attempt one.
	u := New(builder.New(&runtime.DB{}))

	if _, err := Repo[testGenre](u); err != nil {
		t.Fatalf("Repo() error = %v", err)
	}

	affected, err := u.Save(t.Context())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if affected != 0 {
		t.Errorf("Save() = %d, want 0", affected)
	}
}

func TestRollbackDiscardsStaged(t *testing.T) {
	u := New(builder.New(&runtime.DB{}))

	genres, err := Repo[testGenre](u)
	if err != nil {
		t.Fatalf("Repo() error = %v", err)
	}

	genres.Add(testGenre{Name: "Jazz"})
	genres.Add(testGenre{Name: "Rock"})
	u.Rollback()

	if u.Pending() != 0 {
		t.Errorf("Pending() = %d after Rollback, want 0", u.Pending())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	u := New(builder.New(&runtime.DB{}))

	u.Close()
	u.Close()

	if _, err := Repo[testGenre](u); err == nil {
		t.Error("Repo() after Close expected error, got nil")
	}
	if _, err := u.Save(t.Context()); err == nil {
		t.Error("Save() after Close expected error, got nil")
	}
}
