package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookRequestCopiesCount(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"omitted defaults to one", `{"title":"T","author":"A","catalog_id":"x"}`, 1},
		{"explicit zero stays zero", `{"title":"T","author":"A","catalog_id":"x","copies":0}`, 0},
		{"explicit count", `{"title":"T","author":"A","catalog_id":"x","copies":5}`, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateBookRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.CopiesCount())
		})
	}
}
