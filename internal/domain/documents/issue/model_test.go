package issue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
)

func TestIssueValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		doc := New(id.New(), id.New(), id.New(), time.Now().UTC().AddDate(0, 0, 14))
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("due date same day is allowed", func(t *testing.T) {
		doc := New(id.New(), id.New(), id.New(), time.Now().UTC())
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("due before issue date", func(t *testing.T) {
		doc := New(id.New(), id.New(), id.New(), time.Now().UTC().AddDate(0, 0, -3))
		assert.True(t, apperror.IsValidation(doc.Validate(ctx)))
	})

	t.Run("returned without return date", func(t *testing.T) {
		doc := New(id.New(), id.New(), id.New(), time.Now().UTC().AddDate(0, 0, 14))
		doc.IsReturned = true
		assert.True(t, apperror.IsValidation(doc.Validate(ctx)))
	})

	t.Run("missing references", func(t *testing.T) {
		doc := New(id.Nil(), id.New(), id.New(), time.Now().UTC().AddDate(0, 0, 14))
		assert.True(t, apperror.IsValidation(doc.Validate(ctx)))
	})
}

func TestOverdue(t *testing.T) {
	now := time.Now().UTC()
	doc := New(id.New(), id.New(), id.New(), now.AddDate(0, 0, 7))

	assert.False(t, doc.Overdue(now))
	assert.True(t, doc.Overdue(now.AddDate(0, 0, 8)))

	returned := now
	doc.IsReturned = true
	doc.ReturnDate = &returned
	assert.False(t, doc.Overdue(now.AddDate(0, 0, 8)))
}
