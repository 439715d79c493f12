package operation

import (
	"github.com/google/uuid"
)

// Pending is the single operation held while its OTP challenge is open.
type Pending struct {
	ID             string
	Operation      Operation
	SuccessMessage string
	ErrorPrefix    string

	// OnSuccess runs once after the backend accepted the operation.
	OnSuccess func()
	// OnClose runs when the operation is abandoned.
	OnClose func()
}

func NewPending(op Operation, successMessage, errorPrefix string) *Pending {
	return &Pending{
		ID:             uuid.NewString(),
		Operation:      op,
		SuccessMessage: successMessage,
		ErrorPrefix:    errorPrefix,
	}
}

func (p *Pending) Kind() Kind {
	return p.Operation.Kind()
}
