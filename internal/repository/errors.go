// Package repository provides keyed access to rows in the MySQL backing
// store. It contains no policy: lookups, inserts and deletes only. Sentinel
// errors defined here let higher layers distinguish failure cases without
// inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist. Token
// lookups deliberately do NOT return it; they report missing rows as a nil
// result so the service layer can fold "absent" and "expired" into one
// fail-closed decision.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint (username, facility name, facility scope).
var ErrDuplicate = errors.New("duplicate value")

// ErrTokenCollision is returned when a freshly generated token string
// collides with an existing row. The caller must retry with a new random
// string; the store never regenerates tokens itself.
var ErrTokenCollision = errors.New("token collision")

// ErrReservedScope is returned when a facility scope would equal the
// reserved "superuser" literal.
var ErrReservedScope = errors.New("facility scope is reserved")
