package person

import "errors"

var (
	ErrInvalidNationalID       = errors.New("person: invalid national id")
	ErrInvalidFirstName        = errors.New("person: invalid first name")
	ErrInvalidLastName         = errors.New("person: invalid last name")
	ErrPersonNotFound          = errors.New("person: not found")
	ErrNationalIDAlreadyExists = errors.New("person: national id already exists")
	ErrPersonIsDirector        = errors.New("person: still assigned as company director")
)
