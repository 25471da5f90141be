package cart

import "errors"

var (
	ErrNilProduct          = errors.New("product is required")
	ErrNilPackage          = errors.New("package is required")
	ErrInvalidDeliveryType = errors.New("invalid delivery type")
)
