package campaign

import "testing"

func TestTrackerAddDeduplicates(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("The Baron")
	tracker.Add("  the baron ")
	tracker.Add("THE BARON")

	if tracker.Len() != 1 {
		t.Fatalf("expected 1 entity after duplicate adds, got %d", tracker.Len())
	}
	if !tracker.Contains("the Baron") {
		t.Fatal("lookup by variant spelling failed")
	}
}

func TestTrackerFeatureCapsWeight(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("Rin")
	for i := 0; i < 10; i++ {
		tracker.Feature("rin")
	}

	entities := tracker.Sorted()
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	if entities[0].Weight != WeightMax {
		t.Fatalf("weight must cap at %d, got %d", WeightMax, entities[0].Weight)
	}
}

func TestTrackerFeatureAddsUnknown(t *testing.T) {
	tracker := NewTracker()
	tracker.Feature("Sable")

	if !tracker.Contains("sable") {
		t.Fatal("featuring an unknown name must add it")
	}
	if got := tracker.Sorted()[0].Weight; got != WeightMin+1 {
		t.Fatalf("expected weight %d, got %d", WeightMin+1, got)
	}
}

func TestTrackerRemoveByNormalizedKey(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("Old Road Thread")
	tracker.Remove("  OLD ROAD THREAD ")

	if tracker.Len() != 0 {
		t.Fatalf("expected empty tracker, got %d entries", tracker.Len())
	}

	// Removing again is a no-op.
	tracker.Remove("old road thread")
}

func TestTrackerSortedByWeightDescending(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("Background")
	tracker.Add("Recurring")
	tracker.Feature("Recurring")
	tracker.Add("Star")
	tracker.Feature("Star")
	tracker.Feature("Star")

	entities := tracker.Sorted()
	if entities[0].Name != "Star" || entities[1].Name != "Recurring" || entities[2].Name != "Background" {
		t.Fatalf("unexpected order: %+v", entities)
	}
}

func TestTrackerIgnoresBlankNames(t *testing.T) {
	tracker := NewTracker()
	tracker.Add("   ")
	tracker.Feature("")

	if tracker.Len() != 0 {
		t.Fatalf("blank names must be ignored, got %d entries", tracker.Len())
	}
}

func TestNormalizeKeyFoldsCase(t *testing.T) {
	if NormalizeKey(" Straße ") != NormalizeKey("STRASSE") {
		t.Fatal("case folding should match eszett against SS")
	}
}
