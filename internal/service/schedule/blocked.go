package schedule

import (
	"fmt"
	"time"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
)

// ExpandBlockedDate turns a blocked range into one all-day, non-draggable
// entry per covered day, both endpoints inclusive. The source row is never
// mutated.
func ExpandBlockedDate(bd *model.BlockedDate) []model.CalendarEvent {
	var events []model.CalendarEvent

	last := dayOf(bd.ToDate)
	for day := dayOf(bd.FromDate); !day.After(last); day = day.AddDate(0, 0, 1) {
		events = append(events, model.CalendarEvent{
			ID:        fmt.Sprintf("%s-%s", bd.ID, day.Format("2006-01-02")),
			Title:     bd.Name,
			Start:     day,
			End:       day.Add(24 * time.Hour),
			Draggable: false,
			Blocked:   true,
		})
	}
	return events
}
