package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory(t *testing.T) {
	var visited []string
	h := NewHistory("/", func(path string) { visited = append(visited, path) })

	h.Navigate("/hotel-types")
	h.Navigate("/hotel-types")
	h.Navigate("/hotel-types/7")
	assert.Equal(t, "/hotel-types/7", h.Current())
	assert.Equal(t, 3, h.Len())

	assert.Equal(t, "/hotel-types", h.Back())
	assert.Equal(t, "/", h.Back())
	assert.Equal(t, "/", h.Back())
	assert.Equal(t, []string{"/hotel-types", "/hotel-types/7", "/hotel-types", "/", "/"}, visited)
}
