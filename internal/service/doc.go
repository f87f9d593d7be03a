// Package service contains the business rules for users and their bank
// accounts. Services validate input with the guard functions from
// internal/domain, run every mutation inside a store.Transactor and publish a
// domain event once the transaction has committed.
//
// Failures are reported as:
//   - *NotFoundError for unknown users or accounts
//   - domain.ValidationError / domain.ValidationErrors for invalid input
//   - store.ErrVersionConflict (wrapped) when an optimistic update lost a race
//
// Services depend only on the interfaces in internal/store, so the PostgreSQL
// and in-memory backends are interchangeable.
package service
