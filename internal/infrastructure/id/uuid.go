package id

import "github.com/google/uuid"

// UUIDGenerator mints random UUID strings for orders.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string { return uuid.New().String() }
