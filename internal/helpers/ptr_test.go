package helpers_test

import (
	"testing"

	"github.com/isometry/obelix/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, helpers.Ptr[any](nil))
	})

	t.Run("flag_shorthand", func(t *testing.T) {
		p := helpers.Ptr("p")
		if assert.NotNil(t, p) {
			assert.Equal(t, "p", *p)
		}
	})

	t.Run("copies_value", func(t *testing.T) {
		v := 18093
		p := helpers.Ptr(v)
		v++
		assert.Equal(t, 18093, *p)
	})
}
