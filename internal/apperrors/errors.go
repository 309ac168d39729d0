package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found,
// or exists outside the caller's tenant scope.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed a business-rule check.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks permission for the operation.
var ErrForbidden = errors.New("forbidden")
