package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPanel is returned for a panel value or name the client does not have.
	ErrUnknownPanel = errors.New("unknown panel")
	// ErrQuizNotActive is returned when an answer arrives without a running quiz.
	ErrQuizNotActive = errors.New("quiz not active")
	// ErrUnknownOption indicates the chosen key is not an option of the current question.
	ErrUnknownOption = errors.New("option not found")
	// ErrNoGenres is returned when recommendations are requested for an empty genre set.
	ErrNoGenres = errors.New("no genres selected")
	// ErrBusy is returned when the control is disabled because its request is still in flight.
	ErrBusy = errors.New("request already in flight")
)

// ServiceError is a well-formed error payload from the Recommendation Service.
// Its message is shown to the user verbatim.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TransportError covers network failures, non-2xx statuses and undecodable bodies.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
