package service

import "errors"

var (
	// ErrCouponNotFound is returned when a coupon referenced by an event does not exist
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnsupportedTarget is returned when a ranking is requested for an unknown entity type
	ErrUnsupportedTarget = errors.New("unsupported target type")
)
