package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/galaxy/config"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: 42,
		Tick:    1000,
		SimTime: 16.5,
		Field: config.FieldConfig{
			Mode:         "galaxy",
			Count:        2000,
			Branches:     5,
			InsideColor:  "#ff6030",
			OutsideColor: "#1b3984",
			Seed:         7,
		},
		Entities: []EntityState{
			{Handle: 1, Shape: "sphere", Radius: 0.25, Mass: 1, Position: [3]float32{0, 0.25, 0}, Rotation: [4]float32{1, 0, 0, 0}},
			{Handle: 3, Shape: "box", HalfExtents: [3]float32{0.5, 0.25, 0.5}, Mass: 1, Position: [3]float32{1, 0.25, -1}, Rotation: [4]float32{1, 0, 0, 0}},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkImpactBurst,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGSeed != snapshot.RNGSeed || loaded.Tick != snapshot.Tick {
		t.Errorf("header mismatch: got seed=%d tick=%d", loaded.RNGSeed, loaded.Tick)
	}
	if loaded.Field != snapshot.Field {
		t.Errorf("field mismatch: got %+v", loaded.Field)
	}
	if len(loaded.Entities) != len(snapshot.Entities) {
		t.Fatalf("Entities count mismatch: got %d, want %d", len(loaded.Entities), len(snapshot.Entities))
	}
	for i, e := range loaded.Entities {
		if e != snapshot.Entities[i] {
			t.Errorf("entity %d: got %+v, want %+v", i, e, snapshot.Entities[i])
		}
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkSceneSettled,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	expected := filepath.Join(tmpDir, "snapshot_5000_scene_settled.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsOtherVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "tick": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected an error for an unknown snapshot version")
	}
}
