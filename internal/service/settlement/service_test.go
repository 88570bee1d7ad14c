package settlement

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
	"github.com/reimondavendano/betapresko-sub001/pkg/push"
)

// One registry-backed metrics instance for the whole package; promauto
// panics on duplicate registration.
var testMetrics = metrics.New("test_settlement")

type fakeAppointments struct {
	appointments map[uuid.UUID]*model.Appointment
	devices      map[uuid.UUID][]*model.Device
	failStatus   bool
}

func (f *fakeAppointments) Create(_ context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointments) CreateDevices(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func (f *fakeAppointments) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointments) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointments) ListDevices(_ context.Context, id uuid.UUID) ([]*model.Device, error) {
	return f.devices[id], nil
}

func (f *fakeAppointments) UpdateSchedule(_ context.Context, _ uuid.UUID, _ time.Time, _ *string) error {
	return nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	if f.failStatus {
		return errors.New("connection reset")
	}
	f.appointments[id].Status = status
	return nil
}

func (f *fakeAppointments) UpdateSettlementState(_ context.Context, id uuid.UUID, state model.SettlementState) error {
	f.appointments[id].SettlementState = state
	return nil
}

func (f *fakeAppointments) UpdateAmount(_ context.Context, id uuid.UUID, amount float64) error {
	f.appointments[id].Amount = amount
	return nil
}

type fakeDevices struct {
	devices   map[uuid.UUID]*model.Device
	cleanings map[uuid.UUID]time.Time
}

func (f *fakeDevices) Get(_ context.Context, id uuid.UUID) (*model.Device, error) {
	return f.devices[id], nil
}

func (f *fakeDevices) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*model.Device, error) {
	var out []*model.Device
	for _, id := range ids {
		if d, ok := f.devices[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDevices) Update(_ context.Context, id, brandID uuid.UUID, acTypeName, horsepower string) error {
	d := f.devices[id]
	d.BrandID = brandID
	d.ACTypeName = acTypeName
	d.ACType = model.ParseACType(acTypeName)
	d.Horsepower = horsepower
	return nil
}

func (f *fakeDevices) RecordCleaning(_ context.Context, id uuid.UUID, date time.Time) error {
	f.cleanings[id] = date
	return nil
}

func (f *fakeDevices) ListCleanedBefore(_ context.Context, _ time.Time) ([]*model.Device, error) {
	return nil, nil
}

func (f *fakeDevices) SetDueFlags(_ context.Context, _ uuid.UUID, _, _, _ bool) error {
	return nil
}

type fakeClients struct {
	clients    map[uuid.UUID]*model.Client
	failPoints bool
}

func (f *fakeClients) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeClients) AddPoints(_ context.Context, id uuid.UUID, delta int) error {
	if f.failPoints {
		return errors.New("connection reset")
	}
	c, ok := f.clients[id]
	if !ok {
		return errors.New("no rows")
	}
	c.Points += delta
	return nil
}

func (f *fakeClients) ClearReferral(_ context.Context, id uuid.UUID) error {
	f.clients[id].RefID = nil
	return nil
}

type fakeNotifications struct {
	created []*model.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotifications) ListForAdmin(_ context.Context) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeNotifications) ListForClient(_ context.Context, _ uuid.UUID) ([]*model.Notification, error) {
	return nil, nil
}

type fakeRates struct{}

func (fakeRates) GetAll(_ context.Context, _ string) (map[string]string, error) {
	return map[string]string{
		model.RateKeySplitTypePrice:  "600",
		model.RateKeyWindowTypePrice: "500",
		model.RateKeySurcharge:       "150",
		model.RateKeyRepairPrice:     "1000",
		model.RateKeyDiscount:        "0",
		model.RateKeyFamilyDiscount:  "0",
	}, nil
}

type fakePush struct {
	sent []push.Message
}

func (f *fakePush) Send(_ context.Context, msg push.Message) {
	f.sent = append(f.sent, msg)
}

type fixture struct {
	svc           *Service
	appointments  *fakeAppointments
	devices       *fakeDevices
	clients       *fakeClients
	notifications *fakeNotifications
	push          *fakePush
}

func newFixture() *fixture {
	appointments := &fakeAppointments{
		appointments: make(map[uuid.UUID]*model.Appointment),
		devices:      make(map[uuid.UUID][]*model.Device),
	}
	devices := &fakeDevices{
		devices:   make(map[uuid.UUID]*model.Device),
		cleanings: make(map[uuid.UUID]time.Time),
	}
	clients := &fakeClients{clients: make(map[uuid.UUID]*model.Client)}
	notifications := &fakeNotifications{}
	dispatcher := &fakePush{}
	log := logger.NewLogger(nil)

	pricingSvc := pricing.NewService(fakeRates{}, clients, devices, log)
	svc := NewService(appointments, devices, clients, notifications, pricingSvc, dispatcher, testMetrics, log)

	return &fixture{
		svc:           svc,
		appointments:  appointments,
		devices:       devices,
		clients:       clients,
		notifications: notifications,
		push:          dispatcher,
	}
}

func (fx *fixture) seedClient(points int, refID *uuid.UUID) *model.Client {
	c := &model.Client{
		Base:   model.Base{ID: uuid.New()},
		Name:   "Client",
		Points: points,
		RefID:  refID,
	}
	fx.clients.clients[c.ID] = c
	return c
}

func (fx *fixture) seedAppointment(clientID uuid.UUID, status model.AppointmentStatus, deviceCount int) *model.Appointment {
	apt := &model.Appointment{
		Base:          model.Base{ID: uuid.New()},
		ClientID:      clientID,
		ServiceName:   "Cleaning",
		ScheduledDate: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		Status:        status,
		Amount:        600,
	}
	fx.appointments.appointments[apt.ID] = apt

	for i := 0; i < deviceCount; i++ {
		d := &model.Device{
			Base:       model.Base{ID: uuid.New()},
			ClientID:   clientID,
			ACType:     model.ACTypeSplit,
			ACTypeName: "Split Type",
			Horsepower: "1.0",
		}
		fx.devices.devices[d.ID] = d
		fx.appointments.devices[apt.ID] = append(fx.appointments.devices[apt.ID], d)
	}
	return apt
}

func TestComplete_NoReferrer(t *testing.T) {
	fx := newFixture()
	client := fx.seedClient(3, nil)
	apt := fx.seedAppointment(client.ID, model.AppointmentStatusConfirmed, 2)

	completed, err := fx.svc.Complete(context.Background(), apt.ID)
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
	assert.Equal(t, model.SettlementStateDone, completed.SettlementState)
	assert.Equal(t, 4, fx.clients.clients[client.ID].Points)

	// Each serviced device gets a cleaning-history entry on the service date.
	assert.Len(t, fx.devices.cleanings, 2)
	for _, date := range fx.devices.cleanings {
		assert.Equal(t, apt.ScheduledDate, date)
	}

	require.Len(t, fx.notifications.created, 1)
	n := fx.notifications.created[0]
	assert.Equal(t, client.ID, n.ClientID)
	assert.True(t, n.SendToClient)
	assert.False(t, n.SendToAdmin)
	assert.False(t, n.IsReferral)

	require.Len(t, fx.push.sent, 1)
	assert.Equal(t, client.ID.String(), fx.push.sent[0].Audience)
}

func TestComplete_ReferralSettles(t *testing.T) {
	fx := newFixture()
	referrer := fx.seedClient(5, nil)
	referred := fx.seedClient(0, &referrer.ID)
	apt := fx.seedAppointment(referred.ID, model.AppointmentStatusConfirmed, 1)

	_, err := fx.svc.Complete(context.Background(), apt.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, fx.clients.clients[referred.ID].Points)
	assert.Equal(t, 6, fx.clients.clients[referrer.ID].Points)
	assert.Nil(t, fx.clients.clients[referred.ID].RefID, "referral must clear so the bonus settles once")

	require.Len(t, fx.notifications.created, 1)
	assert.True(t, fx.notifications.created[0].IsReferral)
}

func TestComplete_SecondCallRejected(t *testing.T) {
	fx := newFixture()
	client := fx.seedClient(0, nil)
	apt := fx.seedAppointment(client.ID, model.AppointmentStatusConfirmed, 1)

	_, err := fx.svc.Complete(context.Background(), apt.ID)
	require.NoError(t, err)

	_, err = fx.svc.Complete(context.Background(), apt.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// Nothing settled twice.
	assert.Equal(t, 1, fx.clients.clients[client.ID].Points)
	assert.Len(t, fx.notifications.created, 1)
}

func TestComplete_PendingRejected(t *testing.T) {
	fx := newFixture()
	client := fx.seedClient(0, nil)
	apt := fx.seedAppointment(client.ID, model.AppointmentStatusPending, 1)

	_, err := fx.svc.Complete(context.Background(), apt.ID)
	assert.True(t, apperrors.IsBadRequest(err))
	assert.Equal(t, 0, fx.clients.clients[client.ID].Points)
}

func TestComplete_StatusWriteFailureAborts(t *testing.T) {
	fx := newFixture()
	client := fx.seedClient(0, nil)
	apt := fx.seedAppointment(client.ID, model.AppointmentStatusConfirmed, 1)
	fx.appointments.failStatus = true

	_, err := fx.svc.Complete(context.Background(), apt.ID)
	require.Error(t, err)

	assert.Equal(t, 0, fx.clients.clients[client.ID].Points)
	assert.Empty(t, fx.notifications.created)
	assert.Empty(t, fx.push.sent)
}

func TestComplete_PointsFailureContinues(t *testing.T) {
	fx := newFixture()
	client := fx.seedClient(0, nil)
	apt := fx.seedAppointment(client.ID, model.AppointmentStatusConfirmed, 1)
	fx.clients.failPoints = true

	completed, err := fx.svc.Complete(context.Background(), apt.ID)
	require.NoError(t, err)

	// The transition sticks and later steps still run.
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
	assert.Len(t, fx.notifications.created, 1)
	assert.Len(t, fx.push.sent, 1)
}

func TestCorrectDevices(t *testing.T) {
	fx := newFixture()
	client := fx.seedClient(2, nil)
	apt := fx.seedAppointment(client.ID, model.AppointmentStatusConfirmed, 1)

	_, err := fx.svc.Complete(context.Background(), apt.ID)
	require.NoError(t, err)

	deviceID := fx.appointments.devices[apt.ID][0].ID
	updated, err := fx.svc.CorrectDevices(context.Background(), apt.ID, []model.DeviceEdit{{
		DeviceID:   deviceID,
		BrandID:    uuid.New(),
		ACTypeName: "Split Type",
		Horsepower: "2.5",
	}})
	require.NoError(t, err)

	// Recomputed from current rates: 600 base + 150 surcharge.
	assert.Equal(t, 750.0, updated.Amount)
	assert.Equal(t, 750.0, fx.appointments.appointments[apt.ID].Amount)

	// Correction never re-settles.
	assert.Equal(t, 3, fx.clients.clients[client.ID].Points)
	assert.Len(t, fx.notifications.created, 1)
	assert.Len(t, fx.push.sent, 1)
}

func TestCorrectDevices_NoEdits(t *testing.T) {
	fx := newFixture()
	_, err := fx.svc.CorrectDevices(context.Background(), uuid.New(), nil)
	assert.True(t, apperrors.IsBadRequest(err))
}
