package condition

import "errors"

var (
	// ErrMissingOperator is returned when a topic or group is not joined to
	// the preceding part by And or Or.
	ErrMissingOperator = errors.New("condition: missing logical operator between parts")

	// ErrInvalidCondition is returned when the condition references fewer
	// than two topics across all nested groups.
	ErrInvalidCondition = errors.New("condition: at least two topics are required")
)
