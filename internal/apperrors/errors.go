package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// For transactions this is raised when a customID is already taken.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller does not own the resource and has no elevated role.
var ErrForbidden = errors.New("permission denied")

// ErrInsufficientFunds indicates that a debit would take an account balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrUnauthorized indicates that no valid identity accompanied the request.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal wraps unexpected failures of the storage layer.
var ErrInternal = errors.New("internal error")
