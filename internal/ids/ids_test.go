package ids

import "testing"

func TestNextObjectIdIsFreshEveryCall(t *testing.T) {
	a := NewArena()
	first := a.NextObjectId()
	second := a.NextObjectId()
	if first == second {
		t.Fatalf("expected distinct object ids, got %q twice", first)
	}
}

func TestSnapshotRestoreReproducesSequence(t *testing.T) {
	a := NewArena()
	_ = a.NextObjectId()
	snap := a.SnapshotIds()

	wantA := a.NextObjectId()
	wantStable := a.NextStableId()

	a.RestoreIds(snap)
	gotA := a.NextObjectId()
	gotStable := a.NextStableId()

	if gotA != wantA {
		t.Fatalf("object id mismatch after restore: got %q want %q", gotA, wantA)
	}
	if gotStable != wantStable {
		t.Fatalf("stable id mismatch after restore: got %q want %q", gotStable, wantStable)
	}
}

func TestNextStableIdIsFreshAcrossObjectIdMints(t *testing.T) {
	a := NewArena()
	stable := a.NextStableId()
	_ = a.NextObjectId()
	_ = a.NextObjectId()
	again := a.NextStableId()
	if stable == again {
		t.Fatalf("expected distinct stable ids across two mints, got %q twice", stable)
	}
}
