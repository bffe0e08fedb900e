package catalog

import "errors"

var ErrNoSelection = errors.New("no item selected")

// SelectionError is returned by updates that carry no id.
type SelectionError struct {
	Noun string
}

func (e *SelectionError) Error() string {
	return "Select a " + e.Noun + " to update."
}

func (e *SelectionError) Is(target error) bool {
	return target == ErrNoSelection
}
