package roster

import (
	"testing"
	"time"

	"github.com/elitechat/elite/backend/internal/model/roster"
)

func fixedRoster(now time.Time) []roster.Summary {
	return []roster.Summary{
		{ID: 1, Name: "Alice Martin", LastMessage: "see you soon", Time: now.Add(-time.Hour), Unread: true, IsOnline: true},
		{ID: 2, Name: "Bob Stone", LastMessage: "thanks for the call", Time: now.Add(-2 * time.Hour)},
		{ID: 3, Name: "Carla Diaz", LastMessage: "sent the documents", Time: now.Add(-10 * time.Minute), IsOnline: true},
	}
}

func TestSortedByRecency(t *testing.T) {
	now := time.Now()
	sorted := SortedByRecency(fixedRoster(now))

	want := []int64{3, 1, 2}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, sorted[i].ID)
		}
	}
}

func TestSortedByRecencyIdempotent(t *testing.T) {
	now := time.Now()
	once := SortedByRecency(fixedRoster(now))
	twice := SortedByRecency(once)

	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("second sort changed order at %d: %d vs %d", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestSortedByRecencyDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	input := fixedRoster(now)
	SortedByRecency(input)

	if input[0].ID != 1 || input[2].ID != 3 {
		t.Fatal("input order changed")
	}
}

func TestApplyFilterUnread(t *testing.T) {
	now := time.Now()
	kept := ApplyFilter(fixedRoster(now), FilterUnread)

	if len(kept) != 1 || kept[0].ID != 1 {
		t.Fatalf("unexpected unread subset: %+v", kept)
	}
	for _, entry := range kept {
		if !entry.Unread {
			t.Fatalf("entry %d is not unread", entry.ID)
		}
	}
}

func TestApplyFilterOnline(t *testing.T) {
	now := time.Now()
	kept := ApplyFilter(fixedRoster(now), FilterOnline)

	if len(kept) != 2 {
		t.Fatalf("expected 2 online entries, got %d", len(kept))
	}
}

func TestApplyFilterAllIsIdentity(t *testing.T) {
	now := time.Now()
	input := fixedRoster(now)
	kept := ApplyFilter(input, FilterAll)

	if len(kept) != len(input) {
		t.Fatalf("all filter changed length: %d", len(kept))
	}
	if &kept[0] != &input[0] {
		t.Fatal("all filter should return the input slice untouched")
	}
}

func TestApplySearchMatchesNameOrMessage(t *testing.T) {
	now := time.Now()
	input := fixedRoster(now)

	byName := ApplySearch(input, "alice")
	if len(byName) != 1 || byName[0].ID != 1 {
		t.Fatalf("unexpected name match: %+v", byName)
	}

	byMessage := ApplySearch(input, "DOCUMENTS")
	if len(byMessage) != 1 || byMessage[0].ID != 3 {
		t.Fatalf("unexpected message match: %+v", byMessage)
	}

	if got := ApplySearch(input, ""); len(got) != len(input) {
		t.Fatalf("empty query must be identity, got %d entries", len(got))
	}
}

func TestParseFilter(t *testing.T) {
	if f, err := ParseFilter(""); err != nil || f != FilterAll {
		t.Fatalf("empty filter: %v %v", f, err)
	}
	if f, err := ParseFilter("online"); err != nil || f != FilterOnline {
		t.Fatalf("online filter: %v %v", f, err)
	}
	if _, err := ParseFilter("starred"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}
