// Package models describes temporary exposure keys the device has already
// submitted to the reporting backend.
package models

import (
	"time"

	dErrors "exposure/pkg/domain-errors"
)

// MessageType is the kind of report a key was sent with.
type MessageType string

const (
	MessageInfection MessageType = "infection"
	MessageSuspicion MessageType = "suspicion"
	MessageRevoke    MessageType = "revoke"
)

// ParseMessageType validates a message type received from outside.
func ParseMessageType(s string) (MessageType, error) {
	switch mt := MessageType(s); mt {
	case MessageInfection, MessageSuspicion, MessageRevoke:
		return mt, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown message type "+s)
}

// IntervalLength is the duration of one rolling start interval.
const IntervalLength = 10 * time.Minute

// SentKey is the metadata kept for a submitted key so it can later be revoked
// or upgraded with the same password.
type SentKey struct {
	RollingStartIntervalNumber int64       `json:"rolling_start_interval_number"`
	Password                   string      `json:"password"`
	MessageType                MessageType `json:"message_type"`
	CreatedAt                  time.Time   `json:"created_at"`
}

// IntervalNumber returns the rolling start interval containing t.
func IntervalNumber(t time.Time) int64 {
	return t.Unix() / int64(IntervalLength/time.Second)
}

// IntervalStart returns the instant interval n begins.
func IntervalStart(n int64) time.Time {
	return time.Unix(n*int64(IntervalLength/time.Second), 0).UTC()
}
