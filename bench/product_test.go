package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSingleList(t *testing.T) {
	out := product([][]int{{1, 2, 3}})
	assert.Equal(t, [][]int{{1}, {2}, {3}}, out)
}

func TestProductMultipleLists(t *testing.T) {
	out := product([][]int{{1, 2}, {10, 20}})
	assert.Equal(t, [][]int{{1, 10}, {1, 20}, {2, 10}, {2, 20}}, out)
}

func TestProductEmptyListsYieldsOneEmptyCombination(t *testing.T) {
	out := product(nil)
	assert.Equal(t, [][]int{{}}, out)
}
