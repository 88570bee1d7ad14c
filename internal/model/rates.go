package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Rate setting keys as stored by the settings table.
const (
	RateKeySplitTypePrice  = "split_type_price"
	RateKeyWindowTypePrice = "window_type_price"
	RateKeySurcharge       = "surcharge"
	RateKeyRepairPrice     = "repair_price"
	RateKeyDiscount        = "discount"
	RateKeyFamilyDiscount  = "family_discount"
)

// RateSettings is the typed view of the string key/value settings store,
// populated once per operation. Missing or non-numeric keys fail here, at
// parse time, so pricing code never sees a half-formed configuration.
type RateSettings struct {
	SplitTypePrice  float64
	WindowTypePrice float64
	Surcharge       float64
	RepairPrice     float64
	Discount        float64 // percent
	FamilyDiscount  float64 // percent
}

// RateSettingsFromMap builds RateSettings from raw setting rows.
func RateSettingsFromMap(m map[string]string) (*RateSettings, error) {
	var missing []string
	get := func(key string) float64 {
		raw, ok := m[key]
		if !ok {
			missing = append(missing, key)
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			missing = append(missing, key)
			return 0
		}
		return v
	}

	rs := &RateSettings{
		SplitTypePrice:  get(RateKeySplitTypePrice),
		WindowTypePrice: get(RateKeyWindowTypePrice),
		Surcharge:       get(RateKeySurcharge),
		RepairPrice:     get(RateKeyRepairPrice),
		Discount:        get(RateKeyDiscount),
		FamilyDiscount:  get(RateKeyFamilyDiscount),
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("invalid rate settings: missing or non-numeric keys: %s", strings.Join(missing, ", "))
	}
	return rs, nil
}
