package domain

import (
	"fmt"
	"strings"
	"time"
)

// FilterKind selects which predicate a Filter applies.
type FilterKind string

const (
	FilterAll       FilterKind = "all"
	FilterUnread    FilterKind = "unread"
	FilterRead      FilterKind = "read"
	FilterArchived  FilterKind = "archived"
	FilterFailed    FilterKind = "failed"
	FilterScheduled FilterKind = "scheduled"
	FilterCategory  FilterKind = "category"
	FilterPriority  FilterKind = "priority"
)

// Filter selects a subset of notifications for display. Exactly one filter
// is active at a time; a free-text search term composes with it.
type Filter struct {
	Kind     FilterKind
	Category Category
	Priority Priority
}

func NewFilter(kind FilterKind) Filter {
	return Filter{Kind: kind}
}

func NewCategoryFilter(c Category) Filter {
	return Filter{Kind: FilterCategory, Category: c}
}

func NewPriorityFilter(p Priority) Filter {
	return Filter{Kind: FilterPriority, Priority: p}
}

// ParseFilter parses the wire form of a filter: a plain kind such as
// "unread", or "category:sif" / "priority:high". Empty input means all.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return NewFilter(FilterAll), nil
	}
	if name, ok := strings.CutPrefix(s, "category:"); ok {
		c := Category(name)
		switch c {
		case CategorySif, CategorySocial, CategorySystem, CategoryTemplate, CategoryAchievement:
			return NewCategoryFilter(c), nil
		}
		return Filter{}, fmt.Errorf("unknown category %q", name)
	}
	if name, ok := strings.CutPrefix(s, "priority:"); ok {
		for p, pname := range priorityNames {
			if pname == name {
				return NewPriorityFilter(p), nil
			}
		}
		return Filter{}, fmt.Errorf("unknown priority %q", name)
	}
	switch k := FilterKind(s); k {
	case FilterAll, FilterUnread, FilterRead, FilterArchived, FilterFailed, FilterScheduled:
		return NewFilter(k), nil
	}
	return Filter{}, fmt.Errorf("unknown filter %q", s)
}

// String returns the wire form accepted by ParseFilter.
func (f Filter) String() string {
	switch f.Kind {
	case FilterCategory:
		return "category:" + string(f.Category)
	case FilterPriority:
		return "priority:" + f.Priority.String()
	case "":
		return string(FilterAll)
	default:
		return string(f.Kind)
	}
}

// Matches reports whether the notification passes the filter. Filtering
// classifies scheduled notifications, it never hides ones that are not yet
// due: a future-scheduled notification still matches all/unread.
func (f Filter) Matches(n *Notification, now time.Time) bool {
	switch f.Kind {
	case FilterUnread:
		return n.CountsAsUnread()
	case FilterRead:
		return n.State == StateRead
	case FilterArchived:
		return n.State == StateArchived
	case FilterFailed:
		return n.State == StateFailed
	case FilterScheduled:
		return n.IsScheduled(now)
	case FilterCategory:
		return n.Kind.Category() == f.Category && n.State != StateArchived
	case FilterPriority:
		return n.Priority == f.Priority && n.State != StateArchived
	default: // FilterAll
		return n.State != StateArchived
	}
}

// MatchesSearch reports whether the notification matches a free-text search
// term: case-insensitive substring match on title and body. An empty term
// matches everything.
func (n *Notification) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.Body), term)
}
