package vault

import "testing"

func TestSplitRangeSingleBatch(t *testing.T) {
	ranges, err := SplitRange(100, 150, 100)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if ranges[0].From != 100 || ranges[0].To != 150 {
		t.Fatalf("got %+v, want [100,150]", ranges[0])
	}
}

func TestSplitRangeMultipleBatches(t *testing.T) {
	ranges, err := SplitRange(0, 249, 100)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	want := []BlockRange{{0, 99}, {100, 199}, {200, 249}}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d: %v", len(ranges), len(want), ranges)
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Fatalf("range %d: got %+v, want %+v", i, ranges[i], want[i])
		}
	}
}

func TestSplitRangeExactMultiple(t *testing.T) {
	ranges, err := SplitRange(0, 199, 100)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	want := []BlockRange{{0, 99}, {100, 199}}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d: %v", len(ranges), len(want), ranges)
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Fatalf("range %d: got %+v, want %+v", i, ranges[i], want[i])
		}
	}
}

func TestSplitRangeSingleBlock(t *testing.T) {
	ranges, err := SplitRange(42, 42, 100)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(ranges) != 1 || ranges[0].From != 42 || ranges[0].To != 42 {
		t.Fatalf("got %v, want single [42,42]", ranges)
	}
}

func TestSplitRangeInvalid(t *testing.T) {
	if _, err := SplitRange(10, 5, 100); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := SplitRange(0, 10, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}
