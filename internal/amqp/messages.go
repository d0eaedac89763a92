package amqp

import (
	"encoding/json"
	"time"
)

// Change operations carried by ChangeMessage.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
	OpClear  = "clear"
)

// ChangeMessage notifies consumers that a record store collection changed
// for a user. It carries only identifiers; consumers re-read the full
// snapshot from the store.
type ChangeMessage struct {
	UserID     string    `json:"userId"`
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	RecordID   string    `json:"recordId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change notification for a single record.
func NewChangeMessage(userID, collection, op, recordID string) *ChangeMessage {
	return &ChangeMessage{
		UserID:     userID,
		Collection: collection,
		Op:         op,
		RecordID:   recordID,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
