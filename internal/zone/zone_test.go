package zone

import "testing"

func TestZoneStringAndOrdering(t *testing.T) {
	if Battlefield.String() != "BATTLEFIELD" {
		t.Fatalf("unexpected string for Battlefield: %s", Battlefield.String())
	}
	if !Library.IsOrdered() {
		t.Fatalf("expected Library to be ordered")
	}
	if Battlefield.IsOrdered() {
		t.Fatalf("expected Battlefield to be unordered")
	}
	if !Hand.IsPerPlayer() {
		t.Fatalf("expected Hand to be per-player")
	}
	if Stack.IsPerPlayer() {
		t.Fatalf("expected Stack to be shared")
	}
}
