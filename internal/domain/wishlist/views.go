package wishlist

import (
	"sort"
	"strings"
)

// Tab is a status-based view filter.
type Tab string

const (
	TabAll       Tab = "All"
	TabOpen      Tab = "Open"
	TabReserved  Tab = "Reserved"
	TabPurchased Tab = "Purchased"
)

// ParseTab maps user input to a tab, falling back to TabAll.
func ParseTab(input string) Tab {
	switch Tab(input) {
	case TabOpen, TabReserved, TabPurchased:
		return Tab(input)
	}
	return TabAll
}

// Counts are the aggregate per-status totals of a list.
type Counts struct {
	Total     int `json:"all"`
	Open      int `json:"open"`
	Reserved  int `json:"reserved"`
	Purchased int `json:"purchased"`
}

// ToArray flattens an id→item mapping into a slice, each entry carrying its
// id and normalized field defaults.
func ToArray(snapshot Snapshot) []Item {
	items := make([]Item, 0, len(snapshot))
	for id, item := range snapshot {
		item.ID = id
		items = append(items, item.Normalized())
	}
	return items
}

// SortByCreatedDesc stably sorts items newest first. Comparison is
// lexicographic on the RFC3339 createdAt string, so items with a missing
// createdAt sort last.
func SortByCreatedDesc(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
}

// Filter returns the items matching both the search query and the tab. The
// query is trimmed and matched case-insensitively as a substring of the
// item's title, notes and link; an empty query matches everything. TabAll
// matches every status, the other tabs require an exact (normalized) status.
func Filter(items []Item, query string, tab Tab) []Item {
	q := strings.ToLower(strings.TrimSpace(query))

	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if q != "" && !strings.Contains(item.searchText(), q) {
			continue
		}
		if tab != TabAll && item.Normalized().Status != Status(tab) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

// Aggregate counts items per status. Statuses are normalized first, so
// Total == Open + Reserved + Purchased always holds.
func Aggregate(items []Item) Counts {
	counts := Counts{Total: len(items)}
	for _, item := range items {
		switch item.Normalized().Status {
		case StatusReserved:
			counts.Reserved++
		case StatusPurchased:
			counts.Purchased++
		default:
			counts.Open++
		}
	}
	return counts
}
