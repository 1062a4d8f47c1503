package internal

import (
	"iter"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[int]string{1: "one"})
	b := maps.All(map[int]string{2: "two", 3: "three"})

	all := maps.Collect(IterSeq2Concat(a, b))
	assert.Equal(map[int]string{1: "one", 2: "two", 3: "three"}, all)

	var count int
	for range IterSeq2Concat(a, b) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)

	assert.Empty(maps.Collect(IterSeq2Concat[int, string]()))
	var _ iter.Seq2[int, string] = IterSeq2Concat(a)
}
