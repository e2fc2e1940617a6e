// Package dashboard derives the statistics and the ordered list view shown
// on the service order dashboard. Every function here is pure: it reads the
// collection and the supplied instant and never mutates its input.
package dashboard

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"osboard/internal/model"
)

// UrgentWindow is how far ahead a pending deadline counts as urgent.
const UrgentWindow = 24 * time.Hour

type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Urgent    int `json:"urgent"`
}

// ComputeStats counts orders by status. Urgent orders are pending orders
// whose deadline lies strictly inside (now, now+24h).
func ComputeStats(orders []model.ServiceOrder, now time.Time) Stats {
	var s Stats
	s.Total = len(orders)
	for _, o := range orders {
		switch o.Status {
		case model.StatusPending:
			s.Pending++
			if left := o.Deadline.Sub(now); left > 0 && left < UrgentWindow {
				s.Urgent++
			}
		case model.StatusCompleted:
			s.Completed++
		}
	}
	return s
}

type FilterMode string

const (
	FilterAll       FilterMode = "ALL"
	FilterPending   FilterMode = "PENDING"
	FilterCompleted FilterMode = "COMPLETED"
)

// ParseFilterMode is case-insensitive. An empty value selects PENDING, the
// dashboard's initial filter.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "":
		return FilterPending, nil
	case FilterAll, FilterPending, FilterCompleted:
		return m, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

func (m FilterMode) keep(o model.ServiceOrder) bool {
	switch m {
	case FilterPending:
		return o.Status == model.StatusPending
	case FilterCompleted:
		return o.Status == model.StatusCompleted
	}
	return true
}

func statusRank(s model.Status) int {
	if s == model.StatusPending {
		return 0
	}
	return 1
}

// FilterAndSort returns a new slice holding the orders selected by mode.
// Pending orders come before completed ones; each group is ordered by
// ascending deadline. The sort is stable.
func FilterAndSort(orders []model.ServiceOrder, mode FilterMode) []model.ServiceOrder {
	out := make([]model.ServiceOrder, 0, len(orders))
	for _, o := range orders {
		if mode.keep(o) {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b model.ServiceOrder) int {
		if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
			return ra - rb
		}
		return a.Deadline.Compare(b.Deadline)
	})
	return out
}

type Urgency string

const (
	UrgencyLate   Urgency = "late"
	UrgencyUrgent Urgency = "urgent"
	UrgencyNormal Urgency = "normal"
	UrgencyDone   Urgency = "done"
)

// ClassifyUrgency picks the visual class of a single order.
func ClassifyUrgency(o model.ServiceOrder, now time.Time) Urgency {
	if o.Status == model.StatusCompleted {
		return UrgencyDone
	}
	left := o.Deadline.Sub(now)
	switch {
	case left < 0:
		return UrgencyLate
	case left < UrgentWindow:
		return UrgencyUrgent
	}
	return UrgencyNormal
}

// Item is an order decorated with its urgency class for rendering.
type Item struct {
	model.ServiceOrder
	Urgency Urgency `json:"urgency"`
}

func View(orders []model.ServiceOrder, mode FilterMode, now time.Time) []Item {
	sorted := FilterAndSort(orders, mode)
	items := make([]Item, len(sorted))
	for i, o := range sorted {
		items[i] = Item{ServiceOrder: o, Urgency: ClassifyUrgency(o, now)}
	}
	return items
}
