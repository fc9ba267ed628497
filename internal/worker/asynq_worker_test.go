package worker

import (
	"testing"
	"time"
)

func TestResolveSnapshotRangeExplicitDate(t *testing.T) {
	from, to, err := resolveSnapshotRange("2026-03-15")
	if err != nil {
		t.Fatalf("resolveSnapshotRange failed: %v", err)
	}
	wantFrom := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Fatalf("unexpected from, want %v, got %v", wantFrom, from)
	}
	if !to.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected to, want %v, got %v", wantFrom.AddDate(0, 0, 1), to)
	}
}

func TestResolveSnapshotRangeEmptyDateIsYesterday(t *testing.T) {
	from, to, err := resolveSnapshotRange("")
	if err != nil {
		t.Fatalf("resolveSnapshotRange failed: %v", err)
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !from.Equal(today.AddDate(0, 0, -1)) {
		t.Fatalf("expected from to be yesterday, got %v", from)
	}
	if !to.Equal(today) {
		t.Fatalf("expected to to be today midnight, got %v", to)
	}
}

func TestResolveSnapshotRangeInvalidDate(t *testing.T) {
	if _, _, err := resolveSnapshotRange("15/03/2026"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestUntilNextHourBeforeTrigger(t *testing.T) {
	now := time.Date(2026, 3, 15, 2, 30, 0, 0, time.UTC)
	if got := untilNextHour(now, 4); got != 90*time.Minute {
		t.Fatalf("unexpected wait, want 90m, got %v", got)
	}
}

func TestUntilNextHourAfterTriggerRollsToNextDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 4, 0, 0, 0, time.UTC)
	if got := untilNextHour(now, 4); got != 24*time.Hour {
		t.Fatalf("unexpected wait, want 24h, got %v", got)
	}

	now = time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	if got := untilNextHour(now, 4); got != 5*time.Hour {
		t.Fatalf("unexpected wait, want 5h, got %v", got)
	}
}
