package interview

import "fmt"

// ProtocolError reports an oracle response that could not be used where a
// structured field is mandatory. It is fatal for the session: a corrupted
// question or an unclassified answer cannot safely continue the loop.
type ProtocolError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("oracle protocol error during %s: %v", e.Stage, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
