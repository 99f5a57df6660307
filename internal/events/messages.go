package events

import (
	"encoding/json"
	"time"

	"budgetflow/internal/core"
)

// SliceChangedMessage tells consumers which persisted slices a committed
// command changed. Consumers re-read the slices they care about from the
// store; the message intentionally carries no entity data.
type SliceChangedMessage struct {
	Slices    []core.Slice `json:"slices"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewSliceChangedMessage(slices []core.Slice) *SliceChangedMessage {
	return &SliceChangedMessage{
		Slices:    slices,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SliceChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SliceChangedMessageFromJSON creates a message from JSON bytes.
func SliceChangedMessageFromJSON(data []byte) (*SliceChangedMessage, error) {
	var msg SliceChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
