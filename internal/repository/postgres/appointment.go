package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
)

type appointmentRepository struct {
	*BaseRepository
}

func NewAppointmentRepository(base *BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: base}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, client_id, barangay_id, service_id, service_name,
			scheduled_date, time_of_day, status, amount, settlement_state,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ClientID,
		apt.BarangayID,
		apt.ServiceID,
		apt.ServiceName,
		apt.ScheduledDate,
		apt.TimeOfDay,
		apt.Status,
		apt.Amount,
		apt.SettlementState,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// CreateDevices writes the immutable booking-time device snapshot.
func (r *appointmentRepository) CreateDevices(ctx context.Context, appointmentID uuid.UUID, deviceIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO appointment_devices (id, appointment_id, device_id, created_at)
			VALUES ($1, $2, $3, $4)
		`
		now := time.Now()
		for _, deviceID := range deviceIDs {
			if _, err := tx.ExecContext(ctx, query, uuid.New(), appointmentID, deviceID, now); err != nil {
				return fmt.Errorf("failed to create appointment device: %w", err)
			}
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, client_id, barangay_id, service_id, service_name,
			   scheduled_date, time_of_day, status, amount, settlement_state,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, client_id, barangay_id, service_id, service_name,
			   scheduled_date, time_of_day, status, amount, settlement_state,
			   created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.ClientID != uuid.Nil {
			query += fmt.Sprintf(" AND client_id = $%d", argCount)
			args = append(args, filters.ClientID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.DateFrom.IsZero() {
			query += fmt.Sprintf(" AND scheduled_date >= $%d", argCount)
			args = append(args, filters.DateFrom)
			argCount++
		}
		if !filters.DateTo.IsZero() {
			query += fmt.Sprintf(" AND scheduled_date <= $%d", argCount)
			args = append(args, filters.DateTo)
			argCount++
		}
	}

	query += " ORDER BY scheduled_date ASC, id ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListDevices(ctx context.Context, appointmentID uuid.UUID) ([]*model.Device, error) {
	query := `
		SELECT d.id, d.client_id, d.brand_id, d.ac_type, d.ac_type_name,
			   d.horsepower, d.last_cleaning_date,
			   d.due_3_months, d.due_4_months, d.due_6_months,
			   d.created_at, d.updated_at
		FROM devices d
		JOIN appointment_devices ad ON ad.device_id = d.id
		WHERE ad.appointment_id = $1
		ORDER BY ad.created_at ASC
	`
	var devices []*model.Device
	if err := r.db.SelectContext(ctx, &devices, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to list appointment devices: %w", err)
	}
	return devices, nil
}

func (r *appointmentRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay *string) error {
	query := `
		UPDATE appointments
		SET scheduled_date = $1, time_of_day = $2, updated_at = $3
		WHERE id = $4
	`
	return r.execExpectingRow(ctx, query, date, timeOfDay, time.Now(), id)
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	return r.execExpectingRow(ctx, query, status, time.Now(), id)
}

func (r *appointmentRepository) UpdateSettlementState(ctx context.Context, id uuid.UUID, state model.SettlementState) error {
	query := `
		UPDATE appointments
		SET settlement_state = $1, updated_at = $2
		WHERE id = $3
	`
	return r.execExpectingRow(ctx, query, state, time.Now(), id)
}

func (r *appointmentRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount float64) error {
	query := `
		UPDATE appointments
		SET amount = $1, updated_at = $2
		WHERE id = $3
	`
	return r.execExpectingRow(ctx, query, amount, time.Now(), id)
}

func (r *appointmentRepository) execExpectingRow(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}
