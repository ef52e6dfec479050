package postgres

import (
	"reflect"
	"testing"
	"time"
)

type testBase struct {
	ID        string    `db:"id"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
}

type testEntity struct {
	testBase
	Name     string  `db:"name"`
	Note     *string `db:"note"`
	Ignored  string  `db:"-"`
	Untagged string
}

func TestExtractDBColumns(t *testing.T) {
	got := ExtractDBColumns[testEntity]()
	want := []string{"id", "version", "created_at", "name", "note"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDBColumns() = %v, want %v", got, want)
	}
}

func TestExtractDBColumnsPointer(t *testing.T) {
	got := ExtractDBColumns[*testEntity]()
	want := []string{"id", "version", "created_at", "name", "note"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDBColumns[pointer]() = %v, want %v", got, want)
	}
}

func TestStructToMap(t *testing.T) {
	note := "fragile"
	e := testEntity{
		testBase: testBase{ID: "abc", Version: 3},
		Name:     "thing",
		Note:     &note,
		Ignored:  "skip me",
		Untagged: "skip me too",
	}

	m := StructToMap(&e)

	if m["id"] != "abc" {
		t.Errorf("id = %v", m["id"])
	}
	if m["version"] != 3 {
		t.Errorf("version = %v", m["version"])
	}
	if m["name"] != "thing" {
		t.Errorf("name = %v", m["name"])
	}
	if got := m["note"].(*string); *got != "fragile" {
		t.Errorf("note = %v", got)
	}
	if _, ok := m["-"]; ok {
		t.Error("ignored field leaked into map")
	}
	if len(m) != 5 {
		t.Errorf("map has %d entries, want 5", len(m))
	}
}

func TestStructToMapNonStruct(t *testing.T) {
	if m := StructToMap(42); m != nil {
		t.Errorf("StructToMap(int) = %v, want nil", m)
	}
}

// Repeated calls must hit the metadata cache and stay consistent.
func TestStructToMapCached(t *testing.T) {
	e := testEntity{testBase: testBase{ID: "x"}, Name: "n"}

	first := StructToMap(&e)
	second := StructToMap(&e)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs: %v vs %v", first, second)
	}
}
