package identity

// Identity is the resolved buyer and their active cart, passed explicitly
// into every operation instead of riding along in an ambient request
// context.
type Identity struct {
	BuyerID string
	CartID  string
}
