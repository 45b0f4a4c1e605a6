package pipeline

import (
	"errors"
	"testing"
	"time"

	"assetforge/internal/services"
)

func storedRun(id string, status State, created time.Time) *Run {
	run := newRun(id, Config{
		Description: "a thing",
		AssetID:     id,
		Name:        "Thing " + id,
		Type:        "prop",
		Subtype:     "misc",
	}, created)
	run.Status = status
	return run
}

func TestStoreSnapshotUnknown(t *testing.T) {
	store := NewStore(nil)

	_, err := store.Snapshot("missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected services.ErrNotFound, got %v", err)
	}
}

func TestStoreSnapshotIsDeepCopy(t *testing.T) {
	store := NewStore(nil)
	created := time.Now().UTC()
	store.Insert(storedRun("p1", StateProcessing, created))

	snap, err := store.Snapshot("p1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap.Stages[StageTextInput].Status = StageFailed
	snap.Config.MaterialPresets = append(snap.Config.MaterialPresets, "mutated")

	fresh, err := store.Snapshot("p1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if fresh.Stages[StageTextInput].Status != StageCompleted {
		t.Error("mutating a snapshot leaked into the store")
	}
	if len(fresh.Config.MaterialPresets) != 0 {
		t.Error("mutating snapshot config leaked into the store")
	}
}

func TestStoreUpdate(t *testing.T) {
	store := NewStore(nil)
	store.Insert(storedRun("p1", StateInitializing, time.Now().UTC()))

	if ok := store.Update("p1", func(run *Run) { run.Status = StateProcessing }); !ok {
		t.Fatal("Update returned false for a known id")
	}
	if ok := store.Update("missing", func(run *Run) {}); ok {
		t.Fatal("Update returned true for an unknown id")
	}

	snap, _ := store.Snapshot("p1")
	if snap.Status != StateProcessing {
		t.Errorf("status = %s, want processing", snap.Status)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("Update should refresh UpdatedAt")
	}
}

func TestStoreUpdateStampsFromClock(t *testing.T) {
	clock := newStubClock()
	store := NewStore(clock)
	store.Insert(storedRun("p1", StateInitializing, clock.Now()))

	store.Update("p1", func(run *Run) { run.Status = StateProcessing })

	snap, _ := store.Snapshot("p1")
	if !snap.UpdatedAt.Equal(clock.Now().UTC()) {
		t.Errorf("UpdatedAt = %v, want clock time %v", snap.UpdatedAt, clock.Now().UTC())
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := NewStore(nil)
	base := time.Now().UTC()
	store.Insert(storedRun("old", StateCompleted, base.Add(-2*time.Hour)))
	store.Insert(storedRun("new", StateCompleted, base))
	store.Insert(storedRun("mid", StateCompleted, base.Add(-time.Hour)))

	runs := store.List()
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if runs[i].ID != want {
			t.Errorf("runs[%d] = %s, want %s", i, runs[i].ID, want)
		}
	}
}

func TestCleanupOlderThanSparesInFlightRuns(t *testing.T) {
	store := NewStore(nil)
	ancient := time.Now().UTC().Add(-48 * time.Hour)
	store.Insert(storedRun("done-old", StateCompleted, ancient))
	store.Insert(storedRun("failed-old", StateFailed, ancient))
	store.Insert(storedRun("processing-old", StateProcessing, ancient))
	store.Insert(storedRun("done-new", StateCompleted, time.Now().UTC()))

	removed := store.CleanupOlderThan(time.Now().UTC().Add(-24 * time.Hour))
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if _, err := store.Snapshot("processing-old"); err != nil {
		t.Error("in-flight runs must survive cleanup regardless of age")
	}
	if _, err := store.Snapshot("done-new"); err != nil {
		t.Error("recent terminal runs must survive cleanup")
	}
	if _, err := store.Snapshot("done-old"); !errors.Is(err, services.ErrNotFound) {
		t.Error("old completed run should be removed")
	}
}

func TestStageStateNeverReverts(t *testing.T) {
	run := storedRun("p1", StateProcessing, time.Now().UTC())

	run.setStageState(StagePromptOptimization, StageProcessing)
	run.setStageState(StagePromptOptimization, StageCompleted)
	run.setStageState(StagePromptOptimization, StageProcessing)

	if got := run.Stage(StagePromptOptimization).Status; got != StageCompleted {
		t.Errorf("stage status = %s, terminal states must not revert", got)
	}
}

func TestProgressMonotonic(t *testing.T) {
	run := storedRun("p1", StateProcessing, time.Now().UTC())

	run.setProgress(40)
	run.setProgress(20)
	if run.Progress != 40 {
		t.Errorf("progress = %d, want 40 (monotonic)", run.Progress)
	}
	run.setProgress(150)
	if run.Progress != 100 {
		t.Errorf("progress = %d, want clamped to 100", run.Progress)
	}

	run.setStageProgress(StageImage3D, 55)
	run.setStageProgress(StageImage3D, 30)
	if got := run.Stage(StageImage3D).Progress; got != 55 {
		t.Errorf("stage progress = %d, want 55 (monotonic)", got)
	}
}
