package util

// MinirelError attaches a message to one of the package level sentinel
// errors. errors.Is sees through it to the sentinel.
type MinirelError struct {
	Message string
	Err     error
}

func (e *MinirelError) Error() string {
	return e.Message
}

func (e *MinirelError) Unwrap() error {
	return e.Err
}

func NewError(err error, message string) *MinirelError {
	return &MinirelError{
		Message: message + ": " + err.Error(),
		Err:     err,
	}
}
