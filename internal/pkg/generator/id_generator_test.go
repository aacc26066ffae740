package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGenerator_Prefixes(t *testing.T) {
	gen := NewIDGenerator()

	assert.True(t, strings.HasPrefix(gen.NewOrderID(), "ORD-"))
	assert.True(t, strings.HasPrefix(gen.NewBagID(), "BAG-"))
	assert.True(t, strings.HasPrefix(gen.NewItemID(), "ITM-"))
}

func TestIDGenerator_ReferenceIDsAreUnique(t *testing.T) {
	gen := NewIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		refID := gen.NewReferenceID()
		assert.False(t, seen[refID])
		seen[refID] = true
	}
}
