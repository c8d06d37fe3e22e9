package service

import "errors"

// Errors returned by the order and payment services. Handlers classify
// them with IsValidation / IsNotFound to pick a status code.
var (
	ErrEmptyItems        = errors.New("items are required")
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrQuantityPrecision = errors.New("quantity must have at most 2 decimal places")
	ErrInvalidAmount     = errors.New("amount must be > 0")
	ErrAmountPrecision   = errors.New("amount must have at most 2 decimal places")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidCustomerID = errors.New("invalid customer_id")
	ErrInvalidServiceID  = errors.New("invalid service_id")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrServiceNotFound   = errors.New("service not found")
	ErrOrderNotFound     = errors.New("order not found")
)

var validationErrs = []error{
	ErrEmptyItems,
	ErrInvalidQuantity,
	ErrQuantityPrecision,
	ErrInvalidAmount,
	ErrAmountPrecision,
	ErrInvalidMethod,
	ErrInvalidStatus,
	ErrInvalidCustomerID,
	ErrInvalidServiceID,
}

var notFoundErrs = []error{
	ErrCustomerNotFound,
	ErrServiceNotFound,
	ErrOrderNotFound,
}

// IsValidation reports whether err is (or wraps) a bad-input error.
func IsValidation(err error) bool {
	for _, e := range validationErrs {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is (or wraps) a missing-entity error.
func IsNotFound(err error) bool {
	for _, e := range notFoundErrs {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
