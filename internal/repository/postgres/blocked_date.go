package postgres

import (
	"context"
	"fmt"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
)

type blockedDateRepository struct {
	*BaseRepository
}

func NewBlockedDateRepository(base *BaseRepository) repository.BlockedDateRepository {
	return &blockedDateRepository{BaseRepository: base}
}

func (r *blockedDateRepository) List(ctx context.Context) ([]*model.BlockedDate, error) {
	query := `
		SELECT id, name, reason, from_date, to_date
		FROM blocked_dates
		ORDER BY from_date ASC
	`
	var blocked []*model.BlockedDate
	if err := r.db.SelectContext(ctx, &blocked, query); err != nil {
		return nil, fmt.Errorf("failed to list blocked dates: %w", err)
	}
	return blocked, nil
}
