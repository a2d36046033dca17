package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeforeCreateAssignsID(t *testing.T) {
	var b BaseModel
	assert.NoError(t, b.BeforeCreate(nil))
	assert.Len(t, b.ID, 36)

	kept := BaseModel{ID: "m1"}
	assert.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, "m1", kept.ID)
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueStrings([]string{"a", "b", "", "a", "c", "b"}))
	assert.Empty(t, UniqueStrings(nil))
}
