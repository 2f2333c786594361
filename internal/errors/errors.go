// Package errors defines the domain error taxonomy. Services return these
// sentinel values (optionally wrapped) so handlers and callers can branch on
// the error kind without string matching.
package errors

// DomainError is a stable, machine-readable error kind.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
