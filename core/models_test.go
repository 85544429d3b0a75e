package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("Q38933")
		id2 := IDFromContent("Q38933")
		assert.Equal(t, id1, id2)
	})

	t.Run("distinct content yields distinct ids", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("fever"), IDFromContent("rash"))
	})

	t.Run("empty content is valid", func(t *testing.T) {
		assert.NotZero(t, IDFromContent(""))
	})
}

func TestSymptomRoleString(t *testing.T) {
	tests := []struct {
		role SymptomRole
		want string
	}{
		{RolePrimary, "primary"},
		{RoleSecondary, "secondary"},
		{RoleComplication, "complication"},
		{SymptomRole(0), "unknown"},
		{SymptomRole(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.String())
		})
	}
}
