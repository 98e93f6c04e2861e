package orders

import "errors"

// ErrInvalidArgument marks caller input the generator cannot work with.
var ErrInvalidArgument = errors.New("invalid argument")
