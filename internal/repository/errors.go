// Package repository implements the credential store.  Both the SQL store
// and the in-memory store report failures with the sentinel values below so
// that the service layer can distinguish them with errors.Is.
package repository

import "errors"

// ErrEmailExists is returned by Create when the normalized email is already
// registered.  Services translate it into a 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no row matches the requested id or email.
var ErrUserNotFound = errors.New("user not found")
