package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
	"github.com/reimondavendano/betapresko-sub001/internal/service/pricing"
	apperrors "github.com/reimondavendano/betapresko-sub001/pkg/errors"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
	"github.com/reimondavendano/betapresko-sub001/pkg/metrics"
)

const timeOfDayLayout = "3:04 PM"

// Service owns the booking flow and the drag-initiated reschedule. It keeps
// an in-memory copy of appointment rows that the calendar view reads; a
// reschedule mutates that copy optimistically before the write lands, and a
// failed write throws the whole copy away in favor of a fresh authoritative
// load. No partial merge.
type Service struct {
	repo    repository.AppointmentRepository
	pricing PricingService
	local   *cache.Cache
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// PricingService is the slice of the pricing engine the booking flow needs.
type PricingService interface {
	Quote(ctx context.Context, clientID uuid.UUID, deviceIDs []uuid.UUID, serviceName string) (*pricing.Quote, error)
}

func NewService(repo repository.AppointmentRepository, pricing PricingService, m *metrics.Metrics, logger *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		pricing: pricing,
		local:   cache.New(cache.NoExpiration, 10*time.Minute),
		metrics: m,
		logger:  logger,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	quote, err := s.pricing.Quote(ctx, req.ClientID, req.DeviceIDs, req.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to price booking: %w", err)
	}

	apt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		ClientID:        req.ClientID,
		BarangayID:      req.BarangayID,
		ServiceID:       req.ServiceID,
		ServiceName:     req.ServiceName,
		ScheduledDate:   dayOf(req.ScheduledDate),
		TimeOfDay:       req.TimeOfDay,
		Status:          model.AppointmentStatusConfirmed,
		Amount:          quote.Total,
		SettlementState: model.SettlementStateNone,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	if err := s.repo.CreateDevices(ctx, apt.ID, req.DeviceIDs); err != nil {
		return nil, fmt.Errorf("failed to snapshot booking devices: %w", err)
	}

	s.local.Set(apt.ID.String(), apt, cache.DefaultExpiration)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Reschedule applies a drag-initiated date/time change. Only confirmed
// appointments are mutable here; completed and blocked entries never reach
// this path. Identical start times are not rejected: conflicts are a
// presentation concern resolved by slot assignment.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart time.Time) (*model.Appointment, error) {
	if id == uuid.Nil {
		s.metrics.ReschedulesTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.BadRequest("appointment id is required", nil)
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		s.metrics.ReschedulesTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.NotFound("appointment", err)
	}
	if apt.Status != model.AppointmentStatusConfirmed {
		s.metrics.ReschedulesTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot reschedule a %s appointment", apt.Status), nil)
	}

	date := dayOf(newStart)
	var timeOfDay *string
	if newStart.Hour() != 0 || newStart.Minute() != 0 {
		formatted := newStart.Format(timeOfDayLayout)
		timeOfDay = &formatted
	}

	updated := *apt
	updated.ScheduledDate = date
	updated.TimeOfDay = timeOfDay
	s.local.Set(id.String(), &updated, cache.DefaultExpiration)

	if err := s.repo.UpdateSchedule(ctx, id, date, timeOfDay); err != nil {
		s.metrics.ReschedulesTotal.WithLabelValues("failed").Inc()
		s.reconcile(ctx)
		return nil, fmt.Errorf("failed to persist reschedule: %w", err)
	}

	s.metrics.ReschedulesTotal.WithLabelValues("success").Inc()
	return &updated, nil
}

// reconcile discards all optimistic state and reloads the authoritative
// appointment list.
func (s *Service) reconcile(ctx context.Context) {
	s.local.Flush()

	appointments, err := s.repo.List(ctx, nil)
	if err != nil {
		s.logger.Error(err, "failed to reload appointments after persistence failure")
		return
	}
	for _, apt := range appointments {
		s.local.Set(apt.ID.String(), apt, cache.DefaultExpiration)
	}
	s.logger.Info("reloaded appointment state after persistence failure")
}

// LocalAppointment returns the calendar view's copy of one appointment,
// which may be ahead of the store while a reschedule is in flight.
func (s *Service) LocalAppointment(id uuid.UUID) (*model.Appointment, bool) {
	v, ok := s.local.Get(id.String())
	if !ok {
		return nil, false
	}
	return v.(*model.Appointment), true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
