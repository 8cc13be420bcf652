package checkout

// IDGenerator mints order identifiers.
type IDGenerator interface {
	NewID() string
}
