package auth

import (
	"testing"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		role, min string
		want      bool
	}{
		{models.RoleAdmin, models.RoleAdmin, true},
		{models.RoleAdmin, models.RoleUser, true},
		{models.RoleUser, models.RoleUser, true},
		{models.RoleUser, models.RoleAdmin, false},
		{"", models.RoleUser, false},
		{"root", models.RoleAdmin, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Satisfies(tt.role, tt.min), "%s >= %s", tt.role, tt.min)
	}
}

func TestRequireOwner(t *testing.T) {
	assert.NoError(t, RequireOwner(Principal{UserID: 1, Role: models.RoleUser}, 1))
	assert.NoError(t, RequireOwner(Principal{UserID: 2, Role: models.RoleAdmin}, 1))
	assert.ErrorIs(t, RequireOwner(Principal{UserID: 2, Role: models.RoleUser}, 1), ErrForbidden)
	assert.ErrorIs(t, Require(Principal{UserID: 2, Role: models.RoleUser}, models.RoleAdmin), ErrForbidden)
}
