package book

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/core/apperror"
	"librarium/internal/core/entity"
	"librarium/internal/core/id"
)

func validBook() *Book {
	return &Book{
		BaseEntity: entity.NewBaseEntity(),
		Title:      "The Go Programming Language",
		Author:     "Donovan, Kernighan",
		Year:       2015,
		CatalogID:  id.New(),
	}
}

func TestBookValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validBook().Validate(ctx))
	})

	t.Run("empty title", func(t *testing.T) {
		b := validBook()
		b.Title = "   "
		err := b.Validate(ctx)
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("empty author", func(t *testing.T) {
		b := validBook()
		b.Author = ""
		assert.True(t, apperror.IsValidation(b.Validate(ctx)))
	})

	t.Run("negative year", func(t *testing.T) {
		b := validBook()
		b.Year = -44
		assert.True(t, apperror.IsValidation(b.Validate(ctx)))
	})

	t.Run("next year is allowed", func(t *testing.T) {
		b := validBook()
		b.Year = time.Now().UTC().Year() + 1
		assert.NoError(t, b.Validate(ctx))
	})

	t.Run("two years ahead is rejected", func(t *testing.T) {
		b := validBook()
		b.Year = time.Now().UTC().Year() + 2
		assert.True(t, apperror.IsValidation(b.Validate(ctx)))
	})

	t.Run("missing catalog", func(t *testing.T) {
		b := validBook()
		b.CatalogID = id.Nil()
		assert.True(t, apperror.IsValidation(b.Validate(ctx)))
	})
}

func TestInventoryNumber(t *testing.T) {
	bookID := id.New()

	tests := []struct {
		seq  int
		want string
	}{
		{1, fmt.Sprintf("BOOK-%s-001", bookID)},
		{42, fmt.Sprintf("BOOK-%s-042", bookID)},
		{999, fmt.Sprintf("BOOK-%s-999", bookID)},
		{1000, fmt.Sprintf("BOOK-%s-1000", bookID)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InventoryNumber(bookID, tt.seq))
	}
}

func TestNewCopy(t *testing.T) {
	bookID := id.New()
	c := NewCopy(bookID, 3)

	assert.Equal(t, bookID, c.BookID)
	assert.Equal(t, CopyStatusAvailable, c.Status)
	assert.Equal(t, InventoryNumber(bookID, 3), c.InventoryNumber)
	assert.False(t, id.IsNil(c.ID))
	assert.Equal(t, 1, c.Version)
	assert.NoError(t, c.Validate(context.Background()))
}

func TestCopyStatusValid(t *testing.T) {
	for _, s := range []CopyStatus{CopyStatusAvailable, CopyStatusIssued, CopyStatusLost, CopyStatusRepair} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, CopyStatus("destroyed").Valid())
	assert.False(t, CopyStatus("").Valid())
}

func TestCopyValidate(t *testing.T) {
	ctx := context.Background()

	c := NewCopy(id.New(), 1)
	c.Status = "burnt"
	assert.True(t, apperror.IsValidation(c.Validate(ctx)))

	c = NewCopy(id.New(), 1)
	c.InventoryNumber = ""
	assert.True(t, apperror.IsValidation(c.Validate(ctx)))
}
