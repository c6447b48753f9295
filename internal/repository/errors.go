// Package repository persists reservation graphs and API accounts in MySQL.
// The sentinel values here let handlers distinguish failure scenarios
// without inspecting driver errors: ErrNotFound maps to HTTP 404 and
// ErrEmailExists to HTTP 409.
package repository

import "errors"

// ErrNotFound is returned when the requested reservation does not exist,
// whether looked up by numeric ID or record locator.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an account whose email is
// already taken.
var ErrEmailExists = errors.New("email already exists")
