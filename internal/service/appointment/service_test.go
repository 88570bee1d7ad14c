package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/service/pricing"
	apperrors "github.com/reimondavendano/betapresko-sub001/pkg/errors"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
	"github.com/reimondavendano/betapresko-sub001/pkg/metrics"
)

// One registry-backed metrics instance for the whole package; promauto
// panics on duplicate registration.
var testMetrics = metrics.New("test_appointment")

type fakeRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	failUpdate   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeRepo) Create(_ context.Context, apt *model.Appointment) error {
	copied := *apt
	f.appointments[apt.ID] = &copied
	return nil
}

func (f *fakeRepo) CreateDevices(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error { return nil }

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		copied := *apt
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepo) ListDevices(_ context.Context, _ uuid.UUID) ([]*model.Device, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateSchedule(_ context.Context, id uuid.UUID, date time.Time, timeOfDay *string) error {
	if f.failUpdate {
		return errors.New("connection reset")
	}
	apt := f.appointments[id]
	apt.ScheduledDate = date
	apt.TimeOfDay = timeOfDay
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	f.appointments[id].Status = status
	return nil
}

func (f *fakeRepo) UpdateSettlementState(_ context.Context, id uuid.UUID, state model.SettlementState) error {
	f.appointments[id].SettlementState = state
	return nil
}

func (f *fakeRepo) UpdateAmount(_ context.Context, id uuid.UUID, amount float64) error {
	f.appointments[id].Amount = amount
	return nil
}

type fakePricing struct {
	quote *pricing.Quote
	err   error
}

func (f *fakePricing) Quote(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ string) (*pricing.Quote, error) {
	return f.quote, f.err
}

func newTestService(repo *fakeRepo, p PricingService) *Service {
	return NewService(repo, p, testMetrics, logger.NewLogger(nil))
}

func seedConfirmed(repo *fakeRepo, date time.Time) *model.Appointment {
	apt := &model.Appointment{
		Base:          model.Base{ID: uuid.New()},
		ClientID:      uuid.New(),
		ServiceName:   "Cleaning",
		ScheduledDate: date,
		Status:        model.AppointmentStatusConfirmed,
	}
	repo.appointments[apt.ID] = apt
	return apt
}

func TestCreateAppointment(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakePricing{quote: &pricing.Quote{Subtotal: 1200, Total: 1080}})

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:      uuid.New(),
		BarangayID:    uuid.New(),
		ServiceID:     uuid.New(),
		ServiceName:   "Cleaning",
		ScheduledDate: time.Date(2026, 9, 3, 15, 45, 0, 0, time.UTC),
		DeviceIDs:     []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.Equal(t, model.SettlementStateNone, apt.SettlementState)
	assert.Equal(t, 1080.0, apt.Amount)
	// The date is stored at midnight; the clock portion lives in TimeOfDay.
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), apt.ScheduledDate)

	stored, err := repo.Get(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, apt.Amount, stored.Amount)
}

func TestCreateAppointment_PricingFailure(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakePricing{err: errors.New("rates unavailable")})

	_, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		ClientID:  uuid.New(),
		DeviceIDs: []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.Empty(t, repo.appointments)
}

func TestReschedule(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakePricing{})
	apt := seedConfirmed(repo, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC))

	newStart := time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC)
	updated, err := svc.Reschedule(context.Background(), apt.ID, newStart)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), updated.ScheduledDate)
	require.NotNil(t, updated.TimeOfDay)
	assert.Equal(t, "2:30 PM", *updated.TimeOfDay)

	stored, _ := repo.Get(context.Background(), apt.ID)
	assert.Equal(t, updated.ScheduledDate, stored.ScheduledDate)
}

func TestReschedule_MidnightDropClearsTime(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakePricing{})
	apt := seedConfirmed(repo, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC))
	tod := "9:00 AM"
	repo.appointments[apt.ID].TimeOfDay = &tod

	updated, err := svc.Reschedule(context.Background(), apt.ID, time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, updated.TimeOfDay)
}

func TestReschedule_Rejections(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakePricing{})

	t.Run("nil id", func(t *testing.T) {
		_, err := svc.Reschedule(context.Background(), uuid.Nil, time.Now())
		assert.True(t, apperrors.IsBadRequest(err))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := svc.Reschedule(context.Background(), uuid.New(), time.Now())
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	})

	t.Run("completed appointment", func(t *testing.T) {
		apt := seedConfirmed(repo, time.Now())
		repo.appointments[apt.ID].Status = model.AppointmentStatusCompleted

		_, err := svc.Reschedule(context.Background(), apt.ID, time.Now())
		assert.True(t, apperrors.IsBadRequest(err))

		stored, _ := repo.Get(context.Background(), apt.ID)
		assert.Equal(t, model.AppointmentStatusCompleted, stored.Status)
	})
}

func TestReschedule_PersistenceFailureReconciles(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakePricing{})
	original := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	apt := seedConfirmed(repo, original)

	repo.failUpdate = true
	_, err := svc.Reschedule(context.Background(), apt.ID, time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC))
	require.Error(t, err)

	// The optimistic copy must be gone: the local view matches the store.
	local, ok := svc.LocalAppointment(apt.ID)
	require.True(t, ok)
	assert.Equal(t, original, local.ScheduledDate)
	assert.Nil(t, local.TimeOfDay)

	stored, _ := repo.Get(context.Background(), apt.ID)
	assert.Equal(t, original, stored.ScheduledDate)
}
