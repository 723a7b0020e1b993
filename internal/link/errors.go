package link

import "errors"

var ErrNotFound = errors.New("not found")
var ErrValidation = errors.New("invalid input")
