package impulse

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidZone  = errors.New("invalid zone")
	ErrInvalidRoom  = errors.New("invalid room")
	ErrZoneMismatch = errors.New("room and zone disagree")
)

// VocabularyError reports a value outside one of the closed vocabularies.
type VocabularyError struct {
	Kind  string
	Value string
}

func (e *VocabularyError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Value)
}

func (e *VocabularyError) Is(target error) bool {
	switch target {
	case ErrInvalidZone:
		return e.Kind == "zone"
	case ErrInvalidRoom:
		return e.Kind == "room"
	}
	return false
}
