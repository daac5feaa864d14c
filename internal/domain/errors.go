package domain

import "errors"

// ErrNotFound is returned by stores and services when the referenced row does not exist.
var ErrNotFound = errors.New("not found")
