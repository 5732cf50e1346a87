package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage is a lightweight pointer to a transaction that needs
// exporting. The worker fetches the full row from the database, so the message
// only carries enough to locate it and detect stale deliveries.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, userID string, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		UserID:    userID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
