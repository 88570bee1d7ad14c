package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
	"github.com/reimondavendano/betapresko-sub001/pkg/metrics"
)

// DueReminderWorker periodically flags devices whose last cleaning is 3, 4
// or 6 months old and drops an admin-feed notification when a device first
// crosses the 3-month mark.
type DueReminderWorker struct {
	devices       repository.DeviceRepository
	notifications repository.NotificationRepository
	interval      time.Duration
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

func NewDueReminderWorker(
	devices repository.DeviceRepository,
	notifications repository.NotificationRepository,
	interval time.Duration,
	m *metrics.Metrics,
	logger *logger.Logger,
) *DueReminderWorker {
	return &DueReminderWorker{
		devices:       devices,
		notifications: notifications,
		interval:      interval,
		metrics:       m,
		logger:        logger,
	}
}

func (w *DueReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("due-cleaning reminder worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("due-cleaning reminder worker shutting down")
			return
		case <-ticker.C:
			if err := w.Scan(ctx, time.Now()); err != nil {
				w.logger.Error(err, "due-cleaning scan failed")
			}
		}
	}
}

// Scan flags every device at least three months past its last cleaning.
func (w *DueReminderWorker) Scan(ctx context.Context, now time.Time) error {
	cutoff := now.AddDate(0, -3, 0)
	devices, err := w.devices.ListCleanedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list overdue devices: %w", err)
	}

	for _, device := range devices {
		if device.LastCleaningDate == nil {
			continue
		}
		last := *device.LastCleaningDate

		due3 := !last.After(now.AddDate(0, -3, 0))
		due4 := !last.After(now.AddDate(0, -4, 0))
		due6 := !last.After(now.AddDate(0, -6, 0))

		if due3 == device.DueThreeMonths && due4 == device.DueFourMonths && due6 == device.DueSixMonths {
			continue
		}

		if err := w.devices.SetDueFlags(ctx, device.ID, due3, due4, due6); err != nil {
			w.logger.Error(err, "failed to flag device", "device_id", device.ID.String())
			continue
		}
		w.metrics.DueDevicesFlagged.Inc()

		// Notify the admin feed once, when the device first becomes due.
		if due3 && !device.DueThreeMonths {
			n := &model.Notification{
				ID:          uuid.New(),
				ClientID:    device.ClientID,
				SendToAdmin: true,
				Date:        now,
				Message:     fmt.Sprintf("Device %s is due for cleaning (last cleaned %s)", device.ID, last.Format("2006-01-02")),
			}
			if err := w.notifications.Create(ctx, n); err != nil {
				w.logger.Error(err, "failed to record due-cleaning notification", "device_id", device.ID.String())
			}
		}
	}
	return nil
}
