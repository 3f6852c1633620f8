package beeper

import "fmt"

// OpError is the uniform failure kind for backend calls. Op names the
// operation that failed ("list chats", "get chat", "list messages",
// "send message"); Err is the underlying cause. Calls are never retried
// here; retry policy belongs to the caller.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("beeper: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op string, err error) error {
	return &OpError{Op: op, Err: err}
}
