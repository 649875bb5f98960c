package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlices(t *testing.T) {
	t.Parallel()

	assert.True(t, IsEmpty([]int(nil)))
	assert.False(t, IsEmpty([]int{1}))
	assert.False(t, IsMultiple([]int{1}))
	assert.True(t, IsMultiple([]int{1, 2}))

	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = First([]string(nil))
	assert.False(t, ok)
}

func TestDedup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"b", "a", "c"}, Dedup([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, Dedup([]string(nil)))
}

func TestPkgAlias(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "deriving", PkgAlias("derive-generator/deriving"))
	assert.Equal(t, "time", PkgAlias("time"))
	assert.Empty(t, PkgAlias(""))
}
