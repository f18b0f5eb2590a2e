package models

type MessageType string

const (
	MessageUpdateCounter    MessageType = "UPDATE_COUNTER"
	MessageBackgroundUpdate MessageType = "BACKGROUND_UPDATE"
)

// Message is the envelope exchanged between the foreground timer and the
// background coordinator. Interval is only meaningful for UPDATE_COUNTER and
// Timestamp only for BACKGROUND_UPDATE.
type Message struct {
	Type      MessageType `json:"type"`
	Tracking  bool        `json:"tracking,omitempty"`
	Interval  int         `json:"interval,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}
