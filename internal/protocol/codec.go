package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahameddd/food-review-app-real/internal/domain"
)

// Type is the envelope discriminator.
type Type string

const (
	TypeJoin   Type = "join"
	TypeReview Type = "review"
	TypeSystem Type = "system"
	TypeError  Type = "error"
)

var (
	// ErrMalformedPayload indicates the message was not well-formed JSON.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknownMessageType indicates the type tag was absent or not recognized.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Join announces a client's display name.
type Join struct {
	Username string `json:"username"`
}

// Review is the review envelope payload. Sentiment is empty on the inbound leg
// and filled by the server before broadcast.
type Review struct {
	Username   string         `json:"username"`
	Restaurant string         `json:"restaurant"`
	Review     string         `json:"review"`
	Ratings    domain.Ratings `json:"ratings"`
	Sentiment  string         `json:"sentiment,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

// System is a server-originated presence notice.
type System struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ErrorNotice reports a protocol error back to the offending client.
type ErrorNotice struct {
	Message string `json:"message"`
}

// Inbound is a decoded client envelope. Exactly one payload pointer is set,
// matching Type.
type Inbound struct {
	Type   Type
	Join   *Join
	Review *Review
}

// Decode parses a client envelope. It returns ErrMalformedPayload when the data
// is not well-formed JSON and ErrUnknownMessageType when the type tag is missing
// or unrecognized.
func Decode(data []byte) (Inbound, error) {
	var probe struct {
		Type *Type `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if probe.Type == nil {
		return Inbound{}, fmt.Errorf("%w: type field missing", ErrUnknownMessageType)
	}

	switch *probe.Type {
	case TypeJoin:
		var payload Join
		if err := json.Unmarshal(data, &payload); err != nil {
			return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Inbound{Type: TypeJoin, Join: &payload}, nil
	case TypeReview:
		var payload Review
		if err := json.Unmarshal(data, &payload); err != nil {
			return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Inbound{Type: TypeReview, Review: &payload}, nil
	default:
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownMessageType, *probe.Type)
	}
}

type taggedReview struct {
	Type Type `json:"type"`
	Review
}

type taggedSystem struct {
	Type Type `json:"type"`
	System
}

type taggedError struct {
	Type Type `json:"type"`
	ErrorNotice
}

// EncodeReview serializes a review record for broadcast, including the derived
// sentiment label.
func EncodeReview(rec domain.Review) ([]byte, error) {
	return json.Marshal(taggedReview{
		Type: TypeReview,
		Review: Review{
			Username:   rec.Username,
			Restaurant: rec.Restaurant,
			Review:     rec.Text,
			Ratings:    rec.Ratings,
			Sentiment:  string(rec.Sentiment),
			Timestamp:  rec.Timestamp,
		},
	})
}

// EncodeSystem serializes a presence notice.
func EncodeSystem(message, timestamp string) ([]byte, error) {
	return json.Marshal(taggedSystem{
		Type:   TypeSystem,
		System: System{Message: message, Timestamp: timestamp},
	})
}

// EncodeError serializes an error notice.
func EncodeError(message string) ([]byte, error) {
	return json.Marshal(taggedError{
		Type:        TypeError,
		ErrorNotice: ErrorNotice{Message: message},
	})
}
