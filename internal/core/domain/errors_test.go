package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClientName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"acme", false},
		{"acme-prod_2", false},
		{"..hidden", false},
		{"", true},
		{".", true},
		{"..", true},
		{"../etc", true},
		{"a/b", true},
		{`a\b`, true},
		{"a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClientName(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidClientName))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
