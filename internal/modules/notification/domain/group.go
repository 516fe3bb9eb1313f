package domain

import (
	"sort"
	"time"
)

// Group is a display-ready bucket of notifications sharing a calendar date.
// Groups are derived, never persisted.
type Group struct {
	Label         string         `json:"label"`
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// FilterAndGroup derives the ordered group list shown by the notification
// center. It is a pure function of its inputs: the same notifications,
// filter, search term and reference time always produce the same output.
//
// Notifications are filtered, searched, bucketed by the local calendar date
// of CreatedAt ("Today", "Yesterday", then explicit dates), ordered newest
// group first, and ordered newest first within each group with the id as a
// deterministic tie break.
func FilterAndGroup(items []Notification, f Filter, search string, now time.Time) []Group {
	matched := make([]Notification, 0, len(items))
	for i := range items {
		n := &items[i]
		if f.Matches(n, now) && n.MatchesSearch(search) {
			matched = append(matched, n.Clone())
		}
	}
	if len(matched) == 0 {
		return []Group{}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	var groups []Group
	var currentDay time.Time
	for _, n := range matched {
		day := dayOf(n.CreatedAt, now.Location())
		if len(groups) == 0 || !day.Equal(currentDay) {
			groups = append(groups, Group{Label: dayLabel(day, now)})
			currentDay = day
		}
		g := &groups[len(groups)-1]
		g.Notifications = append(g.Notifications, n)
		if n.CountsAsUnread() {
			g.UnreadCount++
		}
	}
	return groups
}

// dayOf truncates a timestamp to its local calendar date.
func dayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// dayLabel names a calendar date relative to now.
func dayLabel(day time.Time, now time.Time) string {
	today := dayOf(now, now.Location())
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("January 2, 2006")
	}
}
