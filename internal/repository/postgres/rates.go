package postgres

import (
	"context"
	"fmt"

	"github.com/reimondavendano/betapresko-sub001/internal/repository"
)

type rateSettingsRepository struct {
	*BaseRepository
}

func NewRateSettingsRepository(base *BaseRepository) repository.RateSettingsRepository {
	return &rateSettingsRepository{BaseRepository: base}
}

// GetAll returns the latest setting rows as raw strings. Parsing is the
// caller's concern; there is no historical versioning.
func (r *rateSettingsRepository) GetAll(ctx context.Context, category string) (map[string]string, error) {
	query := `
		SELECT setting_key, setting_value
		FROM custom_settings
		WHERE category = $1
	`
	rows, err := r.db.QueryxContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan rate setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rate settings: %w", err)
	}
	return settings, nil
}
