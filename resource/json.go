package resource

import (
	"encoding/json"
	"fmt"
	"time"
)

// wireResource is the flat transport document for a Resource. Timestamps
// are RFC 3339; expires_at and last_accessed are null when unset.
type wireResource struct {
	URI          string          `json:"uri"`
	Type         Type            `json:"type"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Tags         []string        `json:"tags"`
	Category     Category        `json:"category"`
	CreatedAt    time.Time       `json:"created_at"`
	ExpiresAt    *time.Time      `json:"expires_at"`
	AccessCount  int             `json:"access_count"`
	LastAccessed *time.Time      `json:"last_accessed"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Resource) MarshalJSON() ([]byte, error) {
	wire := wireResource{
		URI:          r.URI,
		Type:         r.Type,
		Name:         r.Name,
		Description:  r.Description,
		Tags:         r.Tags,
		Category:     r.Category,
		CreatedAt:    r.CreatedAt,
		ExpiresAt:    r.ExpiresAt,
		AccessCount:  r.AccessCount,
		LastAccessed: r.LastAccessed,
	}
	if wire.Tags == nil {
		wire.Tags = []string{}
	}
	if r.Payload != nil {
		raw, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", r.Type, err)
		}
		wire.Metadata = raw
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler. The metadata object is
// decoded into the payload variant selected by the type tag.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var wire wireResource
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !wire.Type.Valid() {
		return fmt.Errorf("unknown resource type %q", wire.Type)
	}

	*r = Resource{
		URI:          wire.URI,
		Type:         wire.Type,
		Name:         wire.Name,
		Description:  wire.Description,
		Tags:         wire.Tags,
		Category:     wire.Category,
		CreatedAt:    wire.CreatedAt,
		ExpiresAt:    wire.ExpiresAt,
		AccessCount:  wire.AccessCount,
		LastAccessed: wire.LastAccessed,
	}
	if len(r.Tags) == 0 {
		r.Tags = nil
	}

	if len(wire.Metadata) == 0 {
		return nil
	}
	payload, err := decodePayload(wire.Type, wire.Metadata)
	if err != nil {
		return err
	}
	r.Payload = payload
	return nil
}

func decodePayload(t Type, raw json.RawMessage) (Payload, error) {
	var payload Payload
	switch t {
	case TypeTable:
		payload = &TablePayload{}
	case TypeChart:
		payload = &ChartPayload{}
	case TypeML:
		payload = &MLPayload{}
	case TypeSchema:
		payload = &SchemaPayload{}
	default:
		return nil, fmt.Errorf("unknown resource type %q", t)
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return payload, nil
}
