package office

import "errors"

var (
	ErrOfficeNotFound = errors.New("office not found")
	ErrNameExists     = errors.New("an office with this name already exists")
)
