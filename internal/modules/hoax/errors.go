package hoax

import "errors"

var (
	ErrHoaxNotFound = errors.New("hoax not found")
	ErrNotOwner     = errors.New("you do not own this hoax")
)
