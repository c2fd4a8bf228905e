package store

import "fmt"

// NotFoundError reports that an ID does not exist, or that no stored entity
// of the requested type is available.
type NotFoundError struct {
	ID   ID     // zero for type-filtered queries
	Type string // requested type, when known
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("ID (%d) was not found", e.ID)
	}
	return fmt.Sprintf("could not find any object of type %s", e.Type)
}

// TypeMismatchError reports that an ID exists but holds a different type.
type TypeMismatchError struct {
	ID   ID
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("ID (%d) is a %s, not a %s", e.ID, e.Got, e.Want)
}
