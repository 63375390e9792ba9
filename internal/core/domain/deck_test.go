package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistributeCards(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		n        int
		expected []int
	}{
		{"even split", 9, 3, []int{3, 3, 3}},
		{"remainder to earliest", 25, 3, []int{9, 8, 8}},
		{"fewer cards than topics", 2, 4, []int{1, 1, 0, 0}},
		{"no topics", 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DistributeCards(tt.total, tt.n))
		})
	}
}
