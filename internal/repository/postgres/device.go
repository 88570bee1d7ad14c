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

type deviceRepository struct {
	*BaseRepository
}

func NewDeviceRepository(base *BaseRepository) repository.DeviceRepository {
	return &deviceRepository{BaseRepository: base}
}

const deviceColumns = `
	id, client_id, brand_id, ac_type, ac_type_name, horsepower,
	last_cleaning_date, due_3_months, due_4_months, due_6_months,
	created_at, updated_at
`

func (r *deviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`
	var device model.Device
	if err := r.db.GetContext(ctx, &device, query, id); err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return &device, nil
}

func (r *deviceRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Device, error) {
	query, args, err := sqlx.In(`SELECT `+deviceColumns+` FROM devices WHERE id IN (?) ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build device query: %w", err)
	}
	query = r.db.Rebind(query)

	var devices []*model.Device
	if err := r.db.SelectContext(ctx, &devices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// Update rewrites the classification fields. The normalized ac_type is
// derived here so the stored enum can never drift from the raw name.
func (r *deviceRepository) Update(ctx context.Context, id, brandID uuid.UUID, acTypeName, horsepower string) error {
	query := `
		UPDATE devices
		SET brand_id = $1, ac_type = $2, ac_type_name = $3, horsepower = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		brandID,
		model.ParseACType(acTypeName),
		acTypeName,
		horsepower,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("device not found")
	}
	return nil
}

func (r *deviceRepository) RecordCleaning(ctx context.Context, id uuid.UUID, date time.Time) error {
	query := `
		UPDATE devices
		SET last_cleaning_date = $1,
			due_3_months = false, due_4_months = false, due_6_months = false,
			updated_at = $2
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, date, time.Now(), id); err != nil {
		return fmt.Errorf("failed to record device cleaning: %w", err)
	}
	return nil
}

func (r *deviceRepository) ListCleanedBefore(ctx context.Context, cutoff time.Time) ([]*model.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices
		WHERE last_cleaning_date IS NOT NULL AND last_cleaning_date <= $1
		ORDER BY last_cleaning_date ASC
	`
	var devices []*model.Device
	if err := r.db.SelectContext(ctx, &devices, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list devices due for cleaning: %w", err)
	}
	return devices, nil
}

func (r *deviceRepository) SetDueFlags(ctx context.Context, id uuid.UUID, due3, due4, due6 bool) error {
	query := `
		UPDATE devices
		SET due_3_months = $1, due_4_months = $2, due_6_months = $3, updated_at = $4
		WHERE id = $5
	`
	if _, err := r.db.ExecContext(ctx, query, due3, due4, due6, time.Now(), id); err != nil {
		return fmt.Errorf("failed to set device due flags: %w", err)
	}
	return nil
}
