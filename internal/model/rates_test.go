package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRateMap() map[string]string {
	return map[string]string{
		RateKeySplitTypePrice:  "600",
		RateKeyWindowTypePrice: "500",
		RateKeySurcharge:       "150",
		RateKeyRepairPrice:     "1000",
		RateKeyDiscount:        "10",
		RateKeyFamilyDiscount:  "20",
	}
}

func TestRateSettingsFromMap(t *testing.T) {
	rs, err := RateSettingsFromMap(validRateMap())
	require.NoError(t, err)

	assert.Equal(t, 600.0, rs.SplitTypePrice)
	assert.Equal(t, 500.0, rs.WindowTypePrice)
	assert.Equal(t, 150.0, rs.Surcharge)
	assert.Equal(t, 1000.0, rs.RepairPrice)
	assert.Equal(t, 10.0, rs.Discount)
	assert.Equal(t, 20.0, rs.FamilyDiscount)
}

func TestRateSettingsFromMap_MissingKey(t *testing.T) {
	m := validRateMap()
	delete(m, RateKeySurcharge)

	_, err := RateSettingsFromMap(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), RateKeySurcharge)
}

func TestRateSettingsFromMap_NonNumeric(t *testing.T) {
	m := validRateMap()
	m[RateKeyDiscount] = "ten percent"

	_, err := RateSettingsFromMap(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), RateKeyDiscount)
}
