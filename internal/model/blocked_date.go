package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockedDate is an admin-defined closure. Both endpoints are inclusive;
// the range is expanded into per-day calendar entries, never mutated.
type BlockedDate struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Reason   string    `db:"reason" json:"reason"`
	FromDate time.Time `db:"from_date" json:"from_date"`
	ToDate   time.Time `db:"to_date" json:"to_date"`
}
