package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

type IDGenerator struct{}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// NewReferenceID returns the opaque token that correlates one checkout
// attempt across redirect URLs and payment lookups.
func (g *IDGenerator) NewReferenceID() string {
	return uuid.NewString()
}

func (g *IDGenerator) NewOrderID() string {
	return prefixedID("ORD")
}

func (g *IDGenerator) NewBagID() string {
	return prefixedID("BAG")
}

func (g *IDGenerator) NewItemID() string {
	return prefixedID("ITM")
}

func prefixedID(prefix string) string {
	randomBytes := make([]byte, 5) // 5 bytes will give us 10 hex chars
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
	}
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(randomBytes))
}
