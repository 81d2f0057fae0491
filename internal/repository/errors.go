package repository

// NotFoundError is an error type for when a resource is not found.
type NotFoundError struct {
	message string
}

// Error returns the error message.
func (e NotFoundError) Error() string {
	return e.message
}

// DuplicateError is an error type for unique-constraint violations that the
// caller should surface as a client error rather than a server failure.
type DuplicateError struct {
	message string
}

// Error returns the error message.
func (e DuplicateError) Error() string {
	return e.message
}
