// Package service implements the firm's domain operations on top of the
// repository layer. Services hold business state transitions only; rule
// evaluation that can fail softly (limits, permissions, integrity) lives
// in the validation package and runs before a service method is called.
//
// External side effects (Discord role grants, channel messages) happen
// after the repository write and are never rolled back: a sync failure is
// logged as a warning and the stored record stays authoritative.
package service
