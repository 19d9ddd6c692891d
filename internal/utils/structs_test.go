package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type BaseRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type listingRow struct {
	BaseRow
	Distance *float64 `db:"distance"`
	Children []string `db:"-"`
	internal string
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "distance"}, StructTagValues(listingRow{}))
	assert.Equal(t, []string{"id", "name"}, StructTagValues(&BaseRow{}))
	assert.Panics(t, func() { StructTagValues("nope") })
}

func TestStructToMap(t *testing.T) {
	row := &listingRow{BaseRow: BaseRow{ID: 3, Name: "Shelter"}, internal: "x"}

	assert.Equal(t, map[string]any{
		"id":       int64(3),
		"name":     "Shelter",
		"distance": (*float64)(nil),
	}, StructToMap(row))
}

func TestErrorWrapOrNil(t *testing.T) {
	assert.NoError(t, ErrorWrapOrNil(nil, "ignored"))

	boom := errors.New("boom")
	assert.Same(t, boom, ErrorWrapOrNil(boom, ""))

	err := ErrorWrapOrNil(boom, "failed to save")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "failed to save: boom", err.Error())
}
