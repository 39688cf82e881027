package authz

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the request carries no verified identity.
var ErrUnauthorized = errors.New("authentication required")

// ForbiddenError indicates a known identity with insufficient rights.
// Reason is safe to return to the caller.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

// NotFoundError indicates the resource is absent, or that the requester may
// not learn whether it exists.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// IsForbidden checks if an error is a ForbiddenError
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}
