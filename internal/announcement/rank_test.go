package announcement

import (
	"sort"
	"testing"
	"time"
)

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		priority string
		want     int
	}{
		{PriorityUrgent, 0},
		{PriorityHigh, 1},
		{PriorityNormal, 2},
		{PriorityLow, 3},
		{"", 2},        // missing defaults to normal
		{"critical", 2}, // unknown defaults to normal
		{"URGENT", 2},   // ranks are case-sensitive
	}

	for _, tt := range tests {
		if got := PriorityRank(tt.priority); got != tt.want {
			t.Errorf("PriorityRank(%q) = %d, want %d", tt.priority, got, tt.want)
		}
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	if !(PriorityRank(PriorityUrgent) < PriorityRank(PriorityHigh) &&
		PriorityRank(PriorityHigh) < PriorityRank(PriorityNormal) &&
		PriorityRank(PriorityNormal) < PriorityRank(PriorityLow)) {
		t.Error("expected urgent < high < normal < low")
	}
}

// The display order is a total order: rank ascending, then publish date
// descending within equal rank.
func TestDisplayOrderTotalOrder(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
	}

	items := []*Announcement{
		{ID: "old-low", Priority: PriorityLow, PublishDate: day(1)},
		{ID: "new-normal", Priority: PriorityNormal, PublishDate: day(20)},
		{ID: "old-urgent", Priority: PriorityUrgent, PublishDate: day(2)},
		{ID: "new-urgent", Priority: PriorityUrgent, PublishDate: day(15)},
		{ID: "unknown-priority", Priority: "whatever", PublishDate: day(25)},
		{ID: "high", Priority: PriorityHigh, PublishDate: day(10)},
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := PriorityRank(items[i].Priority), PriorityRank(items[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return items[i].PublishDate.After(items[j].PublishDate)
	})

	want := []string{"new-urgent", "old-urgent", "high", "unknown-priority", "new-normal", "old-low"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, items[i].ID, id)
		}
	}
}
