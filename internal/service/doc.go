// Package service contains the application use cases: card lifecycle and
// review, notes, relations, review history and user accounts.
//
// Services are stateless structs built from store interfaces, a
// store.Transactor and a logger. They return the sentinel errors of the
// store, domain and auth packages (possibly wrapped in a ServiceError); the
// API layer maps those to HTTP responses.
package service
