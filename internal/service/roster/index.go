package roster

import (
	"errors"
	"sort"
	"strings"

	"github.com/elitechat/elite/backend/internal/model/roster"
)

// Filter selects which discussion previews remain visible.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterOnline Filter = "online"
)

var ErrUnknownFilter = errors.New("unknown discussion filter")

// ParseFilter maps the query-string value onto a Filter. Empty means all.
func ParseFilter(raw string) (Filter, error) {
	switch Filter(raw) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUnread:
		return FilterUnread, nil
	case FilterOnline:
		return FilterOnline, nil
	default:
		return FilterAll, ErrUnknownFilter
	}
}

// SortedByRecency returns the roster ordered by last-activity time, newest
// first. The sort is stable and the input is never mutated.
func SortedByRecency(list []roster.Summary) []roster.Summary {
	sorted := append([]roster.Summary(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.After(sorted[j].Time)
	})
	return sorted
}

// ApplyFilter keeps the entries matching f. FilterAll is the identity and
// returns the input untouched.
func ApplyFilter(list []roster.Summary, f Filter) []roster.Summary {
	if f == FilterAll {
		return list
	}

	kept := make([]roster.Summary, 0, len(list))
	for _, entry := range list {
		switch f {
		case FilterUnread:
			if entry.Unread {
				kept = append(kept, entry)
			}
		case FilterOnline:
			if entry.IsOnline {
				kept = append(kept, entry)
			}
		}
	}
	return kept
}

// ApplySearch keeps entries whose name or last message contains query,
// case-insensitively. An empty query is the identity.
func ApplySearch(list []roster.Summary, query string) []roster.Summary {
	if query == "" {
		return list
	}

	needle := strings.ToLower(query)
	kept := make([]roster.Summary, 0, len(list))
	for _, entry := range list {
		if strings.Contains(strings.ToLower(entry.Name), needle) ||
			strings.Contains(strings.ToLower(entry.LastMessage), needle) {
			kept = append(kept, entry)
		}
	}
	return kept
}

// View composes the full discussion-list derivation: recency order, then
// filter, then search.
func View(list []roster.Summary, f Filter, query string) []roster.Summary {
	return ApplySearch(ApplyFilter(SortedByRecency(list), f), query)
}
