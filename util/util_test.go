package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Id   int
	Name string
}

func TestConvert(t *testing.T) {
	t.Run("records fit in a padded block", func(t *testing.T) {
		data, err := ToByteSlice(record{Id: 7, Name: "seven"}, 64)
		require.NoError(t, err)
		assert.Len(t, data, 64)

		res, err := ToStruct[record](data)
		require.NoError(t, err)
		assert.Equal(t, record{Id: 7, Name: "seven"}, res)
	})

	t.Run("oversized records are rejected", func(t *testing.T) {
		_, err := ToByteSlice(record{Name: "this name does not fit"}, 8)
		assert.Error(t, err)
	})

	t.Run("garbage does not decode", func(t *testing.T) {
		_, err := ToStruct[record]([]byte{0xc1})
		assert.Error(t, err)
	})
}

func TestMinirelError(t *testing.T) {
	sentinel := errors.New("page is pinned")

	err := NewError(sentinel, "flush file test.db")
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "flush file test.db: page is pinned", err.Error())
}
