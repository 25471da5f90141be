package storeapi

import "fmt"

// StoreError is an API-reported failure: the store answered, but with an
// error envelope or a non-success status. Distinct from transport errors,
// which are returned as-is from the HTTP layer.
type StoreError struct {
	StatusCode int
	Message    string
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store error (status %d)", e.StatusCode)
}

// StoreMessage exposes the store's own message so callers can surface it
// to the user without depending on this package.
func (e *StoreError) StoreMessage() string {
	return e.Message
}
