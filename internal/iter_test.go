package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := []string{"a", "b"}
	second := []string{"c"}

	var got []string
	for _, value := range IterSeq2Concat(slices.All(first), slices.All(second)) {
		got = append(got, value)
	}
	assert.Equal([]string{"a", "b", "c"}, got)

	// Early stop.
	got = got[:0]
	for _, value := range IterSeq2Concat(slices.All(first), slices.All(second)) {
		got = append(got, value)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal([]string{"a", "b"}, got)

	merged := maps.Collect(IterSeq2Concat(
		maps.All(map[string]int{"x": 1}),
		maps.All(map[string]int{"y": 2}),
	))
	assert.Equal(map[string]int{"x": 1, "y": 2}, merged)

	assert.Empty(maps.Collect(IterSeq2Concat[string, int]()))
}
