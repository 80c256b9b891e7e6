// Package domain provides the domain layer for the client roster.
// It contains the client entity, value objects, validation, filtering and sorting.
package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ClientID is the opaque identifier of a client.
// The remote API may send it either as a JSON string or as a JSON number;
// both are kept in their textual form.
type ClientID string

// String returns the textual form of the identifier.
func (id ClientID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is unset.
func (id ClientID) IsZero() bool {
	return id == ""
}

// MarshalJSON encodes canonical integers as JSON numbers and everything else as strings.
func (id ClientID) MarshalJSON() ([]byte, error) {
	if isCanonicalInt(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ClientID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode client id: %w", err)
		}
		*id = ClientID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode client id: %w", err)
	}
	*id = ClientID(n.String())
	return nil
}

func isCanonicalInt(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false
	}
	return strconv.FormatInt(n, 10) == s
}

// Status represents the lifecycle status of a client.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// DefaultStatus is assigned when a client is created without a status.
const DefaultStatus = StatusActive

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a status string. Empty input yields DefaultStatus.
func ParseStatus(value string) (Status, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultStatus, nil
	}
	s := Status(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return s, nil
}

// Client represents a client record of the roster.
type Client struct {
	ID        ClientID `json:"id,omitempty"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Company   string   `json:"company,omitempty"`
	Status    Status   `json:"status,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// CreatedTime returns the parsed creation timestamp, or the Unix epoch when
// the timestamp is missing or unparsable.
func (c Client) CreatedTime() time.Time {
	return ParseTimestamp(c.CreatedAt)
}

// EffectiveStatus returns the client status, falling back to DefaultStatus when unset.
func (c Client) EffectiveStatus() Status {
	if c.Status == "" {
		return DefaultStatus
	}
	return c.Status
}

// epoch is the zero point used for missing timestamps.
var epoch = time.Unix(0, 0).UTC()

// ParseTimestamp parses an RFC3339 timestamp. Missing or unparsable values map to the epoch.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return epoch
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return epoch
}

// FormatTimestamp renders a time the way the API stamps records.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// IDs returns the identifiers of the given clients in order.
func IDs(clients []Client) []ClientID {
	ids := make([]ClientID, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	return ids
}
