package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Ignored  string `db:"-"`
	Untagged string
	hidden   string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, StructTagValues(sampleRow{}))
	assert.Equal(t, []string{"id", "name"}, StructTagValues(&sampleRow{}))
}

func TestStructToMap(t *testing.T) {
	row := &sampleRow{ID: "abc", Name: "resume.pdf", Ignored: "x", Untagged: "y", hidden: "z"}

	assert.Equal(t, map[string]any{"id": "abc", "name": "resume.pdf"}, StructToMap(row))
	assert.Equal(t, map[string]any{"name": "resume.pdf"}, StructToMap(row, "id"))
}

func TestStructToMapPanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructToMap(42) })
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, []string{"r.id", "r.score"}, PrefixColumns("r", []string{"id", "score"}))
}

func TestErrorWrapOrNil(t *testing.T) {
	require.NoError(t, ErrorWrapOrNil(nil, "ignored"))

	base := errors.New("boom")
	err := ErrorWrapOrNil(base, "failed to insert resume")
	require.ErrorIs(t, err, base)
	assert.Equal(t, "failed to insert resume: boom", err.Error())
	assert.Same(t, base, ErrorWrapOrNil(base, ""))
}

func TestNanoIDs(t *testing.T) {
	ids := NanoIDs(3)
	require.Len(t, ids, 3)
	for _, id := range ids {
		assert.Len(t, id, NanoidSize)
	}
	assert.NotEqual(t, ids[0], ids[1])
}
