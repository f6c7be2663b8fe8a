package badge

import (
	"context"

	"github.com/mitchellh/mapstructure"
	"github.com/personachat/backend/pkg/xcontext"
)

// Payload is the optional data attached to an event.
type Payload map[string]any

type payloadFields struct {
	Count    int    `mapstructure:"count"`
	Value    int    `mapstructure:"value"`
	ID       string `mapstructure:"id"`
	EntityID string `mapstructure:"entity_id"`
	Text     string `mapstructure:"text"`
	Source   string `mapstructure:"source"`
}

// decodePayload never fails. A malformed payload is logged and the fields
// which could not be decoded keep their defaults.
func decodePayload(ctx context.Context, p Payload) payloadFields {
	fields := payloadFields{Count: 1}
	if len(p) == 0 {
		return fields
	}

	if err := mapstructure.WeakDecode(map[string]any(p), &fields); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode payload %v: %v", p, err)
	}

	return fields
}
