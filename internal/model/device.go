package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ACType is the normalized unit classification. Raw type names from the
// booking form are normalized once at the data boundary; pricing never
// does substring matching itself.
type ACType string

const (
	ACTypeSplit   ACType = "split"
	ACTypeWindow  ACType = "window"
	ACTypeUnknown ACType = "unknown"
)

// ParseACType normalizes a free-form AC type name. "U" covers the
// U-shaped/U-match naming some brands use for split units.
func ParseACType(name string) ACType {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "split"), strings.Contains(n, "u"):
		return ACTypeSplit
	case strings.Contains(n, "window"):
		return ACTypeWindow
	default:
		return ACTypeUnknown
	}
}

type Device struct {
	Base
	ClientID         uuid.UUID  `db:"client_id" json:"client_id"`
	BrandID          uuid.UUID  `db:"brand_id" json:"brand_id"`
	ACType           ACType     `db:"ac_type" json:"ac_type"`
	ACTypeName       string     `db:"ac_type_name" json:"ac_type_name"`
	Horsepower       string     `db:"horsepower" json:"horsepower"` // display value, e.g. "1.5"
	LastCleaningDate *time.Time `db:"last_cleaning_date" json:"last_cleaning_date,omitempty"`
	DueThreeMonths   bool       `db:"due_3_months" json:"due_3_months"`
	DueFourMonths    bool       `db:"due_4_months" json:"due_4_months"`
	DueSixMonths     bool       `db:"due_6_months" json:"due_6_months"`
}
