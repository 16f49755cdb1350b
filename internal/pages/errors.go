package pages

import "errors"

var (
	ErrNavigation      = errors.New("page did not reach the expected state")
	ErrNoResults       = errors.New("search returned no results")
	ErrElementNotFound = errors.New("element not found")
	ErrEmptySearchTerm = errors.New("search term must not be empty")
)
