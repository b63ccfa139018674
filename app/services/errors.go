package services

import (
	"errors"
	"fmt"
)

// OutOfStockError means a product had zero stock at checkout.
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s is out of stock", e.ProductName)
}

// InsufficientStockError means a product's stock could not cover the
// requested quantity.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %s stock is not enough", e.ProductName)
}

var (
	// ErrOrderNumberExhausted means order number generation collided on
	// every attempt. Practically unreachable; checkout aborts cleanly.
	ErrOrderNumberExhausted = errors.New("could not generate a unique order number")

	// ErrEmptyCart means checkout was attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidOtp covers a missing token row and a wrong code alike, so
	// callers cannot enumerate which emails have a pending reset.
	ErrInvalidOtp = errors.New("invalid OTP")

	// ErrExpiredOtp means the code was correct but past its lifetime.
	ErrExpiredOtp = errors.New("OTP has expired")

	// ErrInvalidProof means the reset proof was missing, expired, or
	// already spent.
	ErrInvalidProof = errors.New("invalid or expired reset token")

	// ErrUnknownEmail means no user account carries the address.
	ErrUnknownEmail = errors.New("no account with that email")

	// ErrDuplicateAddress means an identical address book entry exists.
	ErrDuplicateAddress = errors.New("address already saved")
)
