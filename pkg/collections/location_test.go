package collections

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationCompare(t *testing.T) {
	cases := []struct {
		a, b Location
		want int
	}{
		{nil, nil, 0},
		{nil, Location{0}, 1},
		{Location{0}, nil, -1},
		{Location{0}, Location{0}, 0},
		{Location{0}, Location{1}, -1},
		{Location{1}, Location{0}, 1},
		// A parent sorts immediately before its first child's subtree.
		{Location{0}, Location{0, 0}, -1},
		{Location{0, 5}, Location{1}, -1},
		{Location{1}, Location{0, 5}, 1},
		{Location{0, 1, 2}, Location{0, 1, 3}, -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.a.Compare(c.b), "Compare(%v, %v)", c.a, c.b)
	}
}

func TestLocationCompareIsTotalOrder(t *testing.T) {
	locs := []Location{
		nil,
		{0}, {0, 0}, {0, 0, 1}, {0, 1}, {1}, {1, 0}, {2},
	}
	shuffled := []Location{{1, 0}, nil, {0, 1}, {2}, {0}, {0, 0, 1}, {1}, {0, 0}}
	sort.Slice(shuffled, func(i, j int) bool { return shuffled[i].Compare(shuffled[j]) < 0 })
	assert.Equal(t, locs, shuffled)

	for _, l := range locs {
		assert.Zero(t, l.Compare(l))
	}
}

func TestLocationHasPrefix(t *testing.T) {
	assert.True(t, Location{0, 1, 2}.HasPrefix(Location{0, 1}))
	assert.True(t, Location{0, 1}.HasPrefix(Location{0, 1}))
	assert.False(t, Location{0, 1}.HasPrefix(Location{0, 1, 2}))
	assert.False(t, Location{1, 1}.HasPrefix(Location{0}))
	assert.False(t, Location{0}.HasPrefix(nil))
}

func TestLocationHelpers(t *testing.T) {
	loc := Location{1, 2}
	assert.Equal(t, Location{1, 2, 3}, loc.Child(3))
	assert.Equal(t, Location{1}, loc.Parent())
	assert.Nil(t, Location{4}.Parent())
	assert.Equal(t, 2, loc.Last())

	clone := loc.Clone()
	clone[0] = 9
	assert.Equal(t, 1, loc[0])
}
