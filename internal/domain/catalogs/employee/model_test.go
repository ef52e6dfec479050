package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/core/apperror"
)

func TestEmployeeValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid librarian", func(t *testing.T) {
		e := New("Anna", "anna", "anna@library.local", RoleLibrarian)
		assert.NoError(t, e.Validate(ctx))
	})

	t.Run("unknown role", func(t *testing.T) {
		e := New("Anna", "anna", "anna@library.local", Role("director"))
		assert.True(t, apperror.IsValidation(e.Validate(ctx)))
	})

	t.Run("empty username", func(t *testing.T) {
		e := New("Anna", "", "anna@library.local", RoleAdmin)
		assert.True(t, apperror.IsValidation(e.Validate(ctx)))
	})

	t.Run("bad email", func(t *testing.T) {
		e := New("Anna", "anna", "not-an-email", RoleAdmin)
		assert.True(t, apperror.IsValidation(e.Validate(ctx)))
	})
}

func TestPasswordHashing(t *testing.T) {
	e := New("Anna", "anna", "anna@library.local", RoleLibrarian)

	require.NoError(t, SetPassword(e, "correct horse battery"))
	assert.NotEmpty(t, e.PasswordHash)
	assert.NotContains(t, e.PasswordHash, "correct horse")

	assert.True(t, CheckPassword(e, "correct horse battery"))
	assert.False(t, CheckPassword(e, "wrong password"))
}

func TestSetPasswordTooShort(t *testing.T) {
	e := New("Anna", "anna", "anna@library.local", RoleLibrarian)
	err := SetPassword(e, "short")
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, e.PasswordHash)
}
