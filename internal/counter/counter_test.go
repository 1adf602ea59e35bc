package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPositive(t *testing.T, c Counter[string]) {
	t.Helper()
	for k, n := range c {
		assert.Positivef(t, n, "key %q has non-positive count", k)
	}
}

func TestAddSub(t *testing.T) {
	c := Counter[string]{"score": 2}

	added := Add(c, "debt", 1)
	assert.Equal(t, Counter[string]{"score": 2, "debt": 1}, added)
	assert.Equal(t, Counter[string]{"score": 2}, c, "input must not be mutated")

	back := Sub(added, "debt", 1)
	assert.Equal(t, c, back)
	_, ok := back["debt"]
	assert.False(t, ok, "key should be deleted when it reaches zero")
}

func TestSubClampsAtZero(t *testing.T) {
	c := Sub(Counter[string]{"score": 2}, "score", 5)
	assert.Empty(t, c)

	c = Sub(Counter[string]{"score": 2}, "missing", 1)
	assert.Equal(t, Counter[string]{"score": 2}, c)
	assertPositive(t, c)
}

func TestNonPositiveAmountsAreNoOps(t *testing.T) {
	c := Counter[string]{"score": 1}
	assert.Equal(t, c, Add(c, "score", 0))
	assert.Equal(t, c, Add(c, "score", -3))
	assert.Equal(t, c, Sub(c, "score", -3))
}

func TestTotalAndToSlice(t *testing.T) {
	c := Counter[string]{"score": 2, "debt": 1}
	assert.Equal(t, 3, Total(c))
	assert.Equal(t, []string{"debt", "score", "score"}, ToSlice(c))
	assert.Equal(t, []string{"debt", "score"}, Keys(c))
	assert.Equal(t, 0, Total(Counter[string]{}))
}

func TestFromSlice(t *testing.T) {
	c := FromSlice([]string{"a", "b", "a"})
	assert.Equal(t, Counter[string]{"a": 2, "b": 1}, c)
}

func TestMerge(t *testing.T) {
	a := Counter[string]{"a": 1, "b": 2}
	b := Counter[string]{"b": 3, "c": 1}
	m := Merge(a, b)
	assert.Equal(t, Counter[string]{"a": 1, "b": 5, "c": 1}, m)
	assert.Equal(t, Counter[string]{"a": 1, "b": 2}, a)
	assert.Empty(t, Merge[string]())
}

func TestSubtractAndMissing(t *testing.T) {
	have := Counter[string]{"score": 3, "debt": 1}
	need := Counter[string]{"score": 5, "debt": 1, "point-loan": 2}

	assert.Equal(t, Counter[string]{"score": 2, "point-loan": 2}, Missing(have, need))
	assert.False(t, Contains(have, need))
	assert.True(t, Contains(need, have))

	left := Subtract(have, need)
	require.Empty(t, left)
	assertPositive(t, Subtract(need, have))
	assert.Equal(t, Counter[string]{"score": 2, "point-loan": 2}, Subtract(need, have))
}

func TestAddSubRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    Counter[string]
		key  string
	}{
		{"absent key", Counter[string]{"a": 1}, "b"},
		{"present key", Counter[string]{"a": 1}, "a"},
		{"empty", Counter[string]{}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sub(Add(tt.c, tt.key, 1), tt.key, 1)
			assert.Equal(t, tt.c, got)
			assertPositive(t, got)
		})
	}
}
