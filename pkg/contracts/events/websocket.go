// Package events defines the messages pushed to websocket clients.
package events

import (
	"time"

	"sheetcheck/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeConnect is sent once to every client after it registers.
	MessageTypeConnect MessageType = "connect"

	// Dataset lifecycle. A load replaces the record set wholesale, so clients
	// refetch whatever they display when they see dataset:loaded.
	MessageTypeDatasetLoaded  MessageType = "dataset:loaded"
	MessageTypeDatasetFailed  MessageType = "dataset:failed"
	MessageTypeDatasetDeleted MessageType = "dataset:deleted"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// NewMessage stamps a message with the current time.
func NewMessage(t MessageType, data interface{}, traceID string) Message {
	return Message{
		Type:      t,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Data:      data,
	}
}

// ConnectData is the payload of MessageTypeConnect.
type ConnectData struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status"`
}

// DatasetEvent is the payload of the dataset:* messages.
type DatasetEvent struct {
	DatasetID string         `json:"dataset_id"`
	FileName  string         `json:"file_name,omitempty"`
	Sheet     string         `json:"sheet,omitempty"`
	Records   int            `json:"records,omitempty"`
	Totals    *domain.Totals `json:"totals,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Error     string         `json:"error,omitempty"`
}
