package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
)

// Service builds the merged calendar view: slot-assigned appointments plus
// blocked-date overlay entries.
type Service struct {
	appointments repository.AppointmentRepository
	blocked      repository.BlockedDateRepository
	logger       *logger.Logger
}

func NewService(appointments repository.AppointmentRepository, blocked repository.BlockedDateRepository, logger *logger.Logger) *Service {
	return &Service{
		appointments: appointments,
		blocked:      blocked,
		logger:       logger,
	}
}

func (s *Service) BuildCalendar(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	appointments, err := s.appointments.List(ctx, &model.AppointmentFilters{
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	events := AssignSlots(appointments)

	blockedDates, err := s.blocked.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked dates: %w", err)
	}

	for _, bd := range blockedDates {
		for _, entry := range ExpandBlockedDate(bd) {
			if entry.Start.Before(dayOf(from)) || entry.Start.After(to) {
				continue
			}
			events = append(events, entry)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}
