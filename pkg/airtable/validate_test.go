package airtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name          string
		records       []*Record
		requireID     bool
		requireFields bool
		wantErr       bool
	}{
		{
			name:    "empty slice",
			wantErr: true,
		},
		{
			name:    "nil record",
			records: []*Record{nil},
			wantErr: true,
		},
		{
			name:          "create shape",
			records:       []*Record{{Fields: map[string]any{"Name": "x"}}},
			requireFields: true,
		},
		{
			name:          "create without fields",
			records:       []*Record{{}},
			requireFields: true,
			wantErr:       true,
		},
		{
			name:      "delete shape",
			records:   []*Record{{ID: "recR2lEIdjwEL5DvG"}},
			requireID: true,
		},
		{
			name:      "update without id",
			records:   []*Record{{Fields: map[string]any{"Name": "x"}}},
			requireID: true,
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecords(tt.records, tt.requireID, tt.requireFields)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsValueAcceptable(t *testing.T) {
	ok, err := IsValueAcceptable("hello", "singleLineText")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsValueAcceptable([]any{"a", "b"}, "multipleSelects")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsValueAcceptable(true, "checkbox")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsValueAcceptable(3.14, "currency")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsValueAcceptable(true, "number")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = IsValueAcceptable("x", "hologram")
	assert.Error(t, err)
}
