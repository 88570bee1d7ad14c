package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is append-only. The admin and client feeds are computed by
// filtering on the two audience flags plus IsReferral; there is no single
// "type" column.
type Notification struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ClientID     uuid.UUID `db:"client_id" json:"client_id"`
	SendToAdmin  bool      `db:"send_to_admin" json:"send_to_admin"`
	SendToClient bool      `db:"send_to_client" json:"send_to_client"`
	IsReferral   bool      `db:"is_referral" json:"is_referral"`
	Date         time.Time `db:"date" json:"date"`
	Message      string    `db:"message" json:"message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
