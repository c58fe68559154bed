package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Change operations carried by a ChangeEvent.
const (
	OpSave   = "save"
	OpRemove = "remove"
)

// ChangeEvent tells the snapshot worker that one tenant document changed.
// It carries only the key; the worker reads current state from the store.
type ChangeEvent struct {
	Tenant    string    `json:"tenant"`
	Key       string    `json:"key"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeEvent(tenant, key, op string) *ChangeEvent {
	return &ChangeEvent{
		Tenant:    tenant,
		Key:       key,
		Op:        op,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeEventFromJSON decodes a message body. Events without a tenant or key
// are rejected.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var msg ChangeEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Tenant == "" || msg.Key == "" {
		return nil, errors.New("change event missing tenant or key")
	}
	return &msg, nil
}
