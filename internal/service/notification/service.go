package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
)

// Service serves the admin and client notification feeds and records new
// entries. Feeds filter on the audience flags plus is_referral; rows are
// append-only.
type Service struct {
	repo   repository.NotificationRepository
	logger *logger.Logger
}

func NewService(repo repository.NotificationRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Record(ctx context.Context, n *model.Notification) error {
	if n.ClientID == uuid.Nil {
		return fmt.Errorf("client id is required")
	}
	if !n.SendToAdmin && !n.SendToClient {
		return fmt.Errorf("notification must target at least one audience")
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

func (s *Service) AdminFeed(ctx context.Context) ([]*model.Notification, error) {
	notifications, err := s.repo.ListForAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin feed: %w", err)
	}
	return notifications, nil
}

func (s *Service) ClientFeed(ctx context.Context, clientID uuid.UUID) ([]*model.Notification, error) {
	notifications, err := s.repo.ListForClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client feed: %w", err)
	}
	return notifications, nil
}
