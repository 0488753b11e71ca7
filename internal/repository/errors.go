// Package repository defines sentinel error values shared across the
// individual stores. Handlers use them to pick response codes without
// inspecting driver errors: ErrNotFound maps to 404, ErrEmailExists to 409,
// ErrForbidden to 403 and ErrConflict to 409 when storage contention
// exhausts its retries.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by user creation when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting concurrent state, such as a rating submission that keeps
// losing its row lock.
var ErrConflict = errors.New("conflict")
