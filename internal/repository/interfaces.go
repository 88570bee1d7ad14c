package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
)

// All repository interfaces in one file
type (
	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		CreateDevices(ctx context.Context, appointmentID uuid.UUID, deviceIDs []uuid.UUID) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListDevices(ctx context.Context, appointmentID uuid.UUID) ([]*model.Device, error)
		UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay *string) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
		UpdateSettlementState(ctx context.Context, id uuid.UUID, state model.SettlementState) error
		UpdateAmount(ctx context.Context, id uuid.UUID, amount float64) error
	}

	DeviceRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Device, error)
		ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Device, error)
		Update(ctx context.Context, id, brandID uuid.UUID, acTypeName, horsepower string) error
		RecordCleaning(ctx context.Context, id uuid.UUID, date time.Time) error
		ListCleanedBefore(ctx context.Context, cutoff time.Time) ([]*model.Device, error)
		SetDueFlags(ctx context.Context, id uuid.UUID, due3, due4, due6 bool) error
	}

	ClientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		AddPoints(ctx context.Context, id uuid.UUID, delta int) error
		ClearReferral(ctx context.Context, id uuid.UUID) error
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		ListForAdmin(ctx context.Context) ([]*model.Notification, error)
		ListForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Notification, error)
	}

	RateSettingsRepository interface {
		GetAll(ctx context.Context, category string) (map[string]string, error)
	}

	BlockedDateRepository interface {
		List(ctx context.Context) ([]*model.BlockedDate, error)
	}
)
