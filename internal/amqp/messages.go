package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage asks the report worker to export one record.
// It carries only the coordinates; the worker fetches the full record
// from the store so the export always reflects the latest state.
type TransactionSyncMessage struct {
	Collection string    `json:"collection"` // "receitas" or "despesas"
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// TransactionDeleteMessage tells the report worker a record is gone.
type TransactionDeleteMessage struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(collection, id, ownerID string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Collection: collection,
		ID:         id,
		OwnerID:    ownerID,
		Timestamp:  time.Now(),
	}
}

func NewTransactionDeleteMessage(collection, id, ownerID string) *TransactionDeleteMessage {
	return &TransactionDeleteMessage{
		Collection: collection,
		ID:         id,
		OwnerID:    ownerID,
		Timestamp:  time.Now(),
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

func (m *TransactionDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionDeleteMessageFromJSON(data []byte) (*TransactionDeleteMessage, error) {
	var msg TransactionDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
