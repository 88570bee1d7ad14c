package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusVoided    AppointmentStatus = "voided"
)

// SettlementState tracks which completion-settlement steps have already
// persisted, so a retried settlement can tell where it stopped.
type SettlementState string

const (
	SettlementStateNone          SettlementState = "none"
	SettlementStatePointsAwarded SettlementState = "points_awarded"
	SettlementStateNotified      SettlementState = "notified"
	SettlementStateDone          SettlementState = "done"
)

type Appointment struct {
	Base
	ClientID        uuid.UUID         `db:"client_id" json:"client_id"`
	BarangayID      uuid.UUID         `db:"barangay_id" json:"barangay_id"`
	ServiceID       uuid.UUID         `db:"service_id" json:"service_id"`
	ServiceName     string            `db:"service_name" json:"service_name"`
	ScheduledDate   time.Time         `db:"scheduled_date" json:"scheduled_date"`
	TimeOfDay       *string           `db:"time_of_day" json:"time_of_day,omitempty"` // 12-hour display, e.g. "2:30 PM"
	Status          AppointmentStatus `db:"status" json:"status"`
	Amount          float64           `db:"amount" json:"amount"`
	SettlementState SettlementState   `db:"settlement_state" json:"settlement_state"`
}

// AppointmentDevice is the booking-time snapshot of a serviced device.
// Rows are immutable; corrections go through the device itself and a
// recompute of the appointment amount.
type AppointmentDevice struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	DeviceID      uuid.UUID `db:"device_id" json:"device_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type CreateAppointmentRequest struct {
	ClientID      uuid.UUID   `json:"client_id" binding:"required"`
	BarangayID    uuid.UUID   `json:"barangay_id" binding:"required"`
	ServiceID     uuid.UUID   `json:"service_id" binding:"required"`
	ServiceName   string      `json:"service_name" binding:"required"`
	ScheduledDate time.Time   `json:"scheduled_date" binding:"required"`
	TimeOfDay     *string     `json:"time_of_day"`
	DeviceIDs     []uuid.UUID `json:"device_ids" binding:"required,min=1"`
}

type RescheduleRequest struct {
	NewStart time.Time `json:"new_start" binding:"required"`
}

// DeviceEdit is one entry of the post-completion correction flow.
type DeviceEdit struct {
	DeviceID   uuid.UUID `json:"device_id" binding:"required"`
	BrandID    uuid.UUID `json:"brand_id" binding:"required"`
	ACTypeName string    `json:"ac_type_name" binding:"required"`
	Horsepower string    `json:"horsepower" binding:"required"`
}

type CorrectDevicesRequest struct {
	Edits []DeviceEdit `json:"edits" binding:"required,min=1,dive"`
}

type AppointmentFilters struct {
	ClientID uuid.UUID
	Status   AppointmentStatus
	DateFrom time.Time
	DateTo   time.Time
}

// CalendarEvent is a computed display slot, not a persisted time. IDs are
// derived from the source row so repeated assignment yields identical output.
type CalendarEvent struct {
	ID            string    `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id,omitempty"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Draggable     bool      `json:"draggable"`
	Blocked       bool      `json:"blocked"`
}
