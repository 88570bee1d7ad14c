package model

import "github.com/google/uuid"

type Client struct {
	Base
	Name       string     `db:"name" json:"name"`
	RefID      *uuid.UUID `db:"ref_id" json:"ref_id,omitempty"` // referrer, cleared once the bonus settles
	Points     int        `db:"points" json:"points"`
	Discounted bool       `db:"discounted" json:"discounted"`
}
