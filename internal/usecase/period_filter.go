package usecase

import (
	"sort"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	"FinDash/pkg/util"
)

// FilterEvents keeps events of the given tier whose date falls in the period
// window starting at today. Unknown periods skip the date window. Input order
// is preserved.
func FilterEvents(events []models.GeneratedEvent, today util.Date, period domrepo.Period, tier models.Importance) []models.GeneratedEvent {
	days, windowed := period.WindowDays()
	until := today.AddDays(days)

	out := make([]models.GeneratedEvent, 0, len(events))
	for _, e := range events {
		if e.Importance != tier {
			continue
		}
		if windowed && !e.Date.Within(today, until) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Ordering controls how a calendar view is sorted.
type Ordering string

const (
	OrderCatalog       Ordering = "catalog"
	OrderChronological Ordering = "chronological"
)

// SortEvents reorders events in place. Catalog order is a no-op; chronological
// is a stable sort on the KST stamp.
func SortEvents(events []models.GeneratedEvent, o Ordering) {
	if o != OrderChronological {
		return
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].TimeKST < events[j].TimeKST
	})
}
