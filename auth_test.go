package tally

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGate(t *testing.T) {
	tt := []struct {
		name       string
		secret     string
		credential string
		admin      bool
	}{
		{"matching credential", "s3cret", "s3cret", true},
		{"wrong credential", "s3cret", "s3cre", false},
		{"empty credential", "s3cret", "", false},
		{"no secret configured", "", "", false},
		{"no secret ignores credential", "", "pene123", false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGate(tc.secret)
			assert.Equal(t, tc.secret != "", g.Enabled())
			assert.Equal(t, tc.admin, g.Authorize(tc.credential).IsAdmin())
		})
	}
}

func TestAuthorization_Require(t *testing.T) {
	assert.NoError(t, Admin().require("delete"))

	err := Anonymous().require("delete")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "delete")
}
