package postgres

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		old  map[string]any
		new  map[string]any
		want map[string]any
	}{
		{
			name: "changed field",
			old:  map[string]any{"status": "available"},
			new:  map[string]any{"status": "issued"},
			want: map[string]any{
				"status": map[string]any{"old": "available", "new": "issued"},
			},
		},
		{
			name: "added field",
			old:  map[string]any{},
			new:  map[string]any{"note": "x"},
			want: map[string]any{
				"note": map[string]any{"old": nil, "new": "x"},
			},
		},
		{
			name: "removed field",
			old:  map[string]any{"note": "x"},
			new:  map[string]any{},
			want: map[string]any{
				"note": map[string]any{"old": "x", "new": nil},
			},
		},
		{
			name: "unchanged field omitted",
			old:  map[string]any{"title": "same", "year": 2001},
			new:  map[string]any{"title": "same", "year": 2002},
			want: map[string]any{
				"year": map[string]any{"old": 2001, "new": 2002},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() = %v, want %v", got, tt.want)
			}
		})
	}
}
