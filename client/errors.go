package client

import "fmt"

// Category is the user-facing failure class. The presentation layer picks
// its message and affordance from this, so it is preserved end-to-end.
type Category string

const (
	CategoryOffline      Category = "offline"
	CategoryInvalidInput Category = "invalid-input"
	CategoryNetwork      Category = "network"
	CategoryTimeout      Category = "timeout"
	CategoryServer       Category = "server"
	CategoryUnknown      Category = "unknown"
)

// RecognitionError is the only error type Recognize returns.
type RecognitionError struct {
	Category Category
	Message  string
	Err      error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}
