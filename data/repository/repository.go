// Package repository provides MongoDB-backed persistence for users and
// sessions.
package repository

import "errors"

var (
	// ErrNotFound is returned when no document matches the query.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when an insert violates the unique email
	// index. Uniqueness is enforced by the index alone, never by a
	// read-before-write, so concurrent signups cannot race past it.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidID is returned when an id is not a valid ObjectID hex.
	ErrInvalidID = errors.New("invalid id")
)
