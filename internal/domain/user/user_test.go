package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     error
	}{
		{"ok", "Ada", "ada@example.com", "secret", nil},
		{"blank name", "  ", "ada@example.com", "secret", ErrNameRequired},
		{"bad email", "Ada", "ada.example.com", "secret", ErrInvalidEmail},
		{"short password", "Ada", "ada@example.com", "12345", ErrPasswordTooWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateRegistration(tt.userName, tt.email, tt.password), tt.want)
		})
	}
}
