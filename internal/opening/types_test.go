package opening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpeningValidate(t *testing.T) {
	require.NoError(t, Opening{}.Validate())
	require.NoError(t, Opening{{10, 5}, {10, 0}, {20, 100}}.Validate())

	err := Opening{{20, 5}, {10, 5}}.Validate()
	assert.ErrorIs(t, err, ErrUnsorted)

	assert.ErrorIs(t, Opening{{0, 5}}.Validate(), ErrBadAttack)
	assert.ErrorIs(t, Opening{{5, 100.5}}.Validate(), ErrBadAttack)
	assert.ErrorIs(t, Opening{{5, -1}}.Validate(), ErrBadAttack)
}

func TestOpeningSortedIsStableCopy(t *testing.T) {
	o := Opening{{30, 1}, {10, 2}, {30, 3}, {20, 4}}
	s := o.Sorted()
	assert.Equal(t, Opening{{10, 2}, {20, 4}, {30, 1}, {30, 3}}, s)
	assert.Equal(t, Attack{30, 1}, o[0])
}

func TestOpeningInsert(t *testing.T) {
	o := Opening{{10, 1}, {20, 2}, {30, 3}}
	assert.Equal(t, Opening{{5, 9}, {10, 1}, {20, 2}, {30, 3}}, o.Insert(Attack{5, 9}))
	assert.Equal(t, Opening{{10, 1}, {20, 2}, {20, 9}, {30, 3}}, o.Insert(Attack{20, 9}))
	assert.Equal(t, Opening{{10, 1}, {20, 2}, {30, 3}, {40, 9}}, o.Insert(Attack{40, 9}))
	assert.Len(t, o, 3)
	assert.Equal(t, Opening{{1, 1}}, Opening(nil).Insert(Attack{1, 1}))
}
