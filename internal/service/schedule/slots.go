package schedule

import (
	"sort"
	"time"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
)

const (
	slotStartHour = 8
	slotEndHour   = 17
	slotDuration  = time.Hour

	timeOfDayLayout = "3:04 PM"
)

// AssignSlots maps one admin window's appointments onto display slots.
//
// Appointments with an admin-set time come first within their date, sorted
// by that time. The rest get a per-date cursor starting at 08:00 in one-hour
// steps; the cursor wraps back to 08:00 once it reaches 17:00 rather than
// spilling into the next day. Ordering ties break on appointment id, so the
// assignment is idempotent over an unchanged set.
func AssignSlots(appointments []*model.Appointment) []model.CalendarEvent {
	byDate := make(map[time.Time][]*model.Appointment)
	for _, apt := range appointments {
		if apt.Status == model.AppointmentStatusVoided {
			continue
		}
		day := dayOf(apt.ScheduledDate)
		byDate[day] = append(byDate[day], apt)
	}

	days := make([]time.Time, 0, len(byDate))
	for day := range byDate {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var events []model.CalendarEvent
	for _, day := range days {
		events = append(events, assignDay(day, byDate[day])...)
	}
	return events
}

func assignDay(day time.Time, appointments []*model.Appointment) []model.CalendarEvent {
	var timed, untimed []*model.Appointment
	starts := make(map[*model.Appointment]time.Time)

	for _, apt := range appointments {
		if apt.TimeOfDay != nil {
			if clock, err := time.Parse(timeOfDayLayout, *apt.TimeOfDay); err == nil {
				starts[apt] = day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
				timed = append(timed, apt)
				continue
			}
		}
		untimed = append(untimed, apt)
	}

	sort.Slice(timed, func(i, j int) bool {
		si, sj := starts[timed[i]], starts[timed[j]]
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return timed[i].ID.String() < timed[j].ID.String()
	})
	sort.Slice(untimed, func(i, j int) bool {
		return untimed[i].ID.String() < untimed[j].ID.String()
	})

	events := make([]model.CalendarEvent, 0, len(appointments))
	for _, apt := range timed {
		events = append(events, eventFor(apt, starts[apt]))
	}

	cursor := day.Add(slotStartHour * time.Hour)
	for _, apt := range untimed {
		if cursor.Hour() >= slotEndHour {
			cursor = day.Add(slotStartHour * time.Hour)
		}
		events = append(events, eventFor(apt, cursor))
		cursor = cursor.Add(slotDuration)
	}
	return events
}

func eventFor(apt *model.Appointment, start time.Time) model.CalendarEvent {
	return model.CalendarEvent{
		ID:            apt.ID.String(),
		AppointmentID: apt.ID,
		Title:         apt.ServiceName,
		Start:         start,
		End:           start.Add(slotDuration),
		Draggable:     apt.Status == model.AppointmentStatusConfirmed,
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
