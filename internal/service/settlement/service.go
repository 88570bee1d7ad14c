package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
	"github.com/reimondavendano/betapresko-sub001/internal/service/pricing"
	apperrors "github.com/reimondavendano/betapresko-sub001/pkg/errors"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
	"github.com/reimondavendano/betapresko-sub001/pkg/metrics"
	"github.com/reimondavendano/betapresko-sub001/pkg/push"
)

const referralPoints = 1

// Service runs the completion settlement: the bundle of state changes that
// fires when an operator marks an appointment completed. Steps persist
// independently and sequentially; once the status transition lands, later
// step failures are logged and skipped, never rolled back. The status
// transition itself is the idempotence guard: a second Complete call for
// the same appointment is rejected before anything re-runs.
type Service struct {
	appointments  repository.AppointmentRepository
	devices       repository.DeviceRepository
	clients       repository.ClientRepository
	notifications repository.NotificationRepository
	pricing       *pricing.Service
	push          push.Dispatcher
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	devices repository.DeviceRepository,
	clients repository.ClientRepository,
	notifications repository.NotificationRepository,
	pricingSvc *pricing.Service,
	dispatcher push.Dispatcher,
	m *metrics.Metrics,
	logger *logger.Logger,
) *Service {
	return &Service{
		appointments:  appointments,
		devices:       devices,
		clients:       clients,
		notifications: notifications,
		pricing:       pricingSvc,
		push:          dispatcher,
		metrics:       m,
		logger:        logger,
	}
}

// Complete transitions confirmed → completed and settles points, history and
// notifications as one coordinated operation.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if id == uuid.Nil {
		return nil, apperrors.BadRequest("appointment id is required", nil)
	}

	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.Conflict("appointment is already completed", nil)
	}
	if apt.Status != model.AppointmentStatusConfirmed {
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot complete a %s appointment", apt.Status), nil)
	}

	// Step 1: the terminal transition. If this write fails nothing has
	// settled and the whole operation aborts cleanly.
	if err := s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete appointment: %w", err)
	}
	apt.Status = model.AppointmentStatusCompleted

	// Step 2: device history.
	s.recordDeviceHistory(ctx, apt)

	// Step 3: loyalty points and referral resolution.
	isReferral := s.settlePoints(ctx, apt)

	// Step 4: the in-app notification record.
	s.recordNotification(ctx, apt, isReferral)

	// Step 5: best-effort push; failures never surface.
	s.push.Send(ctx, push.Message{
		Audience: apt.ClientID.String(),
		Title:    "Service completed",
		Body:     fmt.Sprintf("Your %s appointment has been completed. Thank you!", apt.ServiceName),
	})

	s.advanceState(ctx, apt, model.SettlementStateDone)
	s.metrics.SettlementsCompleted.Inc()
	return apt, nil
}

func (s *Service) recordDeviceHistory(ctx context.Context, apt *model.Appointment) {
	devices, err := s.appointments.ListDevices(ctx, apt.ID)
	if err != nil {
		s.stepFailed(ctx, apt, "device_history", err)
		return
	}
	for _, device := range devices {
		if err := s.devices.RecordCleaning(ctx, device.ID, apt.ScheduledDate); err != nil {
			s.stepFailed(ctx, apt, "device_history", err)
		}
	}
}

// settlePoints awards loyalty points and, when the client still carries a
// referrer, credits that referrer and clears ref_id so the bonus can never
// settle twice.
func (s *Service) settlePoints(ctx context.Context, apt *model.Appointment) bool {
	client, err := s.clients.Get(ctx, apt.ClientID)
	if err != nil {
		s.stepFailed(ctx, apt, "points", err)
		return false
	}

	if err := s.clients.AddPoints(ctx, client.ID, referralPoints); err != nil {
		s.stepFailed(ctx, apt, "points", err)
	}

	isReferral := client.RefID != nil
	if isReferral {
		if err := s.clients.AddPoints(ctx, *client.RefID, referralPoints); err != nil {
			s.stepFailed(ctx, apt, "referral_credit", err)
		}
		if err := s.clients.ClearReferral(ctx, client.ID); err != nil {
			s.stepFailed(ctx, apt, "referral_clear", err)
		}
		s.metrics.ReferralsSettled.Inc()
	}

	s.advanceState(ctx, apt, model.SettlementStatePointsAwarded)
	return isReferral
}

func (s *Service) recordNotification(ctx context.Context, apt *model.Appointment, isReferral bool) {
	n := &model.Notification{
		ID:           uuid.New(),
		ClientID:     apt.ClientID,
		SendToAdmin:  false,
		SendToClient: true,
		IsReferral:   isReferral,
		Date:         apt.ScheduledDate,
		Message:      fmt.Sprintf("%s completed", apt.ServiceName),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.stepFailed(ctx, apt, "notification", err)
		return
	}
	s.advanceState(ctx, apt, model.SettlementStateNotified)
}

func (s *Service) advanceState(ctx context.Context, apt *model.Appointment, state model.SettlementState) {
	if err := s.appointments.UpdateSettlementState(ctx, apt.ID, state); err != nil {
		s.logger.ZL.Error().
			Err(err).
			Str("appointment_id", apt.ID.String()).
			Str("state", string(state)).
			Msg("failed to persist settlement state")
		return
	}
	apt.SettlementState = state
}

func (s *Service) stepFailed(ctx context.Context, apt *model.Appointment, step string, err error) {
	s.metrics.SettlementStepErrors.WithLabelValues(step).Inc()
	s.logger.ZL.Error().
		Err(err).
		Str("appointment_id", apt.ID.String()).
		Str("step", step).
		Msg("settlement step failed, continuing")
}

// CorrectDevices is the post-completion correction path: the operator fixes
// a device's brand/type/horsepower and the appointment amount is recomputed
// from current rates. It never re-awards points or re-notifies.
func (s *Service) CorrectDevices(ctx context.Context, id uuid.UUID, edits []model.DeviceEdit) (*model.Appointment, error) {
	if id == uuid.Nil {
		return nil, apperrors.BadRequest("appointment id is required", nil)
	}
	if len(edits) == 0 {
		return nil, apperrors.BadRequest("at least one device edit is required", nil)
	}

	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}

	for _, edit := range edits {
		if err := s.devices.Update(ctx, edit.DeviceID, edit.BrandID, edit.ACTypeName, edit.Horsepower); err != nil {
			return nil, fmt.Errorf("failed to update device: %w", err)
		}
	}

	devices, err := s.appointments.ListDevices(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment devices: %w", err)
	}
	rates, err := s.pricing.CurrentRates(ctx)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.Get(ctx, apt.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	quote := s.pricing.QuoteDevices(client, devices, rates, apt.ServiceName)
	if err := s.appointments.UpdateAmount(ctx, id, quote.Total); err != nil {
		return nil, fmt.Errorf("failed to update appointment amount: %w", err)
	}

	apt.Amount = quote.Total
	return apt, nil
}
