package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
)

type clientRepository struct {
	*BaseRepository
}

func NewClientRepository(base *BaseRepository) repository.ClientRepository {
	return &clientRepository{BaseRepository: base}
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, name, ref_id, points, discounted, created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE clients
		SET points = points + $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to add client points: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

func (r *clientRepository) ClearReferral(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE clients
		SET ref_id = NULL, updated_at = $1
		WHERE id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to clear client referral: %w", err)
	}
	return nil
}
