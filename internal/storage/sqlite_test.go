package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/replay"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newRecording(t *testing.T, score, ticks int, created time.Time) *replay.Recording {
	t.Helper()
	rec, err := replay.NewRecorder("tetris", config.DefaultTetrisConfig(), core.RuntimeConfig{TickRate: 60, Seed: 7})
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}
	f := core.NewInputFrame()
	f.Set(core.ActionLeft)
	for range ticks {
		rec.Record(f)
	}
	out := rec.Finish(score, "alice")
	out.CreatedAt = created
	return out
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndLoadRecording(t *testing.T) {
	store := openTestStore(t)
	rec := newRecording(t, 9, 120, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	if err := store.SaveRecording(rec); err != nil {
		t.Fatalf("SaveRecording() failed: %v", err)
	}

	got, err := store.Recording(rec.ID)
	if err != nil {
		t.Fatalf("Recording() failed: %v", err)
	}
	if got.ID != rec.ID || got.GameID != "tetris" || got.Player != "alice" {
		t.Errorf("Recording() = %+v", got)
	}
	if got.Seed != 7 || got.TickRate != 60 || got.FinalScore != 9 || got.Version != replay.Version {
		t.Errorf("Recording() metadata = %+v", got)
	}
	if string(got.Inputs) != string(rec.Inputs) {
		t.Error("inputs differ after round trip")
	}
	if string(got.Config) != string(rec.Config) {
		t.Error("rules snapshot differs after round trip")
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, expected %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestRecordingNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Recording(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recording() error = %v, expected ErrNotFound", err)
	}
	if err := store.DeleteRecording(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteRecording() error = %v, expected ErrNotFound", err)
	}
	if _, err := store.FindRecording("ffff"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindRecording() error = %v, expected ErrNotFound", err)
	}
}

func TestRecordingsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := range 3 {
		rec := newRecording(t, i*3, 10*(i+1), base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveRecording(rec); err != nil {
			t.Fatalf("SaveRecording() failed: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	infos, err := store.Recordings(10)
	if err != nil {
		t.Fatalf("Recordings() failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("Recordings() returned %d entries, expected 3", len(infos))
	}
	if infos[0].ID != ids[2] || infos[2].ID != ids[0] {
		t.Errorf("Recordings() not ordered newest first: %v", infos)
	}
	if infos[0].Ticks != 30 || infos[0].FinalScore != 6 {
		t.Errorf("newest entry = %+v", infos[0])
	}
	if infos[0].Duration() != 500*time.Millisecond {
		t.Errorf("Duration() = %v, expected 500ms", infos[0].Duration())
	}

	limited, err := store.Recordings(2)
	if err != nil {
		t.Fatalf("Recordings(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Recordings(2) returned %d entries", len(limited))
	}
}

func TestFindRecordingByPrefix(t *testing.T) {
	store := openTestStore(t)
	rec := newRecording(t, 3, 5, time.Now().UTC())
	if err := store.SaveRecording(rec); err != nil {
		t.Fatal(err)
	}

	got, err := store.FindRecording(rec.ID.String()[:8])
	if err != nil {
		t.Fatalf("FindRecording(prefix) failed: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("FindRecording() = %s, expected %s", got.ID, rec.ID)
	}

	got, err = store.FindRecording(rec.ID.String())
	if err != nil || got.ID != rec.ID {
		t.Errorf("FindRecording(full) = %v, %v", got, err)
	}
}

func TestDeleteRecording(t *testing.T) {
	store := openTestStore(t)
	rec := newRecording(t, 0, 5, time.Now().UTC())
	if err := store.SaveRecording(rec); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteRecording(rec.ID); err != nil {
		t.Fatalf("DeleteRecording() failed: %v", err)
	}
	if _, err := store.Recording(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recording() after delete = %v, expected ErrNotFound", err)
	}
}

func TestSaveRecordingReplaces(t *testing.T) {
	store := openTestStore(t)
	rec := newRecording(t, 1, 5, time.Now().UTC())
	if err := store.SaveRecording(rec); err != nil {
		t.Fatal(err)
	}
	rec.FinalScore = 42
	if err := store.SaveRecording(rec); err != nil {
		t.Fatal(err)
	}

	infos, err := store.Recordings(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].FinalScore != 42 {
		t.Errorf("Recordings() = %+v, expected one entry with score 42", infos)
	}
}
