package model

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists = errors.New("record already exists")
	ErrNotFound      = errors.New("record not found")
)

// UnknownUsernameError is returned by a Resolver when nobody with that
// username is known. Its message is shown to the admin verbatim.
type UnknownUsernameError struct {
	Username string
}

func (e *UnknownUsernameError) Error() string {
	return fmt.Sprintf("No user has %q as username", e.Username)
}

func (e *UnknownUsernameError) Is(target error) bool {
	return target == ErrNotFound
}
