package signal

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// SignalHandler receives every serialized Envelope.
type SignalHandler func([]byte)

// Envelope is the JSON frame pushed to the UI.
type Envelope struct {
	Type  string      `json:"type"`
	Event interface{} `json:"event"`
}

var (
	handlerLock sync.RWMutex
	handler     SignalHandler
)

// SetSignalHandler replaces the active handler. Passing nil drops signals.
func SetSignalHandler(h SignalHandler) {
	handlerLock.Lock()
	defer handlerLock.Unlock()
	handler = h
}

func Send(typ string, event interface{}) {
	data, err := json.Marshal(&Envelope{Type: typ, Event: event})
	if err != nil {
		zap.L().Error("marshalling signal envelope", zap.String("type", typ), zap.Error(err))
		return
	}

	handlerLock.RLock()
	h := handler
	handlerLock.RUnlock()

	if h == nil {
		zap.L().Debug("no signal handler set", zap.String("type", typ))
		return
	}
	h(data)
}
