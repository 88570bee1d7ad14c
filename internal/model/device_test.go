package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseACType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ACType
	}{
		{"split", "Split Type", ACTypeSplit},
		{"split lowercase", "split", ACTypeSplit},
		{"u-shaped counts as split", "U-Shaped Inverter", ACTypeSplit},
		{"window", "Window Type", ACTypeWindow},
		{"unrecognized", "Cassette", ACTypeUnknown},
		{"empty", "", ACTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseACType(tt.input))
		})
	}
}
