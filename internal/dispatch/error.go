package dispatch

import "errors"

var (
	ErrNoRiderIdentity = errors.New("session has no rider identity")
	ErrNoShopIdentity  = errors.New("session has no shop identity")
	ErrRequestInFlight = errors.New("another order request is still in flight")
	ErrNotAssigned     = errors.New("order is not assigned to this rider")
	ErrInvalidStatus   = errors.New("invalid delivery status")
)
