package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReportMessage is the bus payload: a full report snapshot.
type ReportMessage struct {
	Report Document `json:"report"`
}

// EncodeReportMessage serialises a snapshot for the bus.
func EncodeReportMessage(doc Document) ([]byte, error) {
	data, err := json.Marshal(ReportMessage{Report: doc})
	if err != nil {
		return nil, fmt.Errorf("encode report message: %w", err)
	}
	return data, nil
}

// DecodeReportMessage validates and decodes a bus payload.
// The payload must be an object whose "report" member is itself a flat
// object of strings; otherwise ErrInvalidSnapshot is returned and nothing
// of the payload should be adopted.
func DecodeReportMessage(data []byte) (Document, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return Document{}, fmt.Errorf("%w: message must be an object", ErrInvalidSnapshot)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	raw, ok := envelope["report"]
	if !ok || string(raw) == "null" {
		return Document{}, fmt.Errorf("%w: expected message.report to be a non-null object", ErrInvalidSnapshot)
	}

	values, err := decodeFlatObject(raw)
	if err != nil {
		return Document{}, err
	}
	return Document{values: values}, nil
}
