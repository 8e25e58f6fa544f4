package ringsystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionFind(t *testing.T) {
	u := newUnionFind(5)
	u.union(0, 1)
	u.union(3, 4)
	u.union(1, 4)

	assert.Equal(t, u.find(0), u.find(3))
	assert.NotEqual(t, u.find(0), u.find(2))
	u.union(0, 4)
	assert.Equal(t, u.find(1), u.find(4))
}
