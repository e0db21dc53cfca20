package activity

import (
	"strings"
	"time"
)

// Verbs emitted for variant lifecycle events.
const (
	VerbResolved = "variant.resolved"
	VerbPruned   = "variant.pruned"
)

// ObjectTypeVariant is the object type of every variant event.
const ObjectTypeVariant = "variant"

// VariantEventInput describes the fields shared by variant lifecycle events.
type VariantEventInput struct {
	ActorID    string
	Key        string
	ID         string
	Option     string
	State      string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildResolvedEvent reports that a mounted component read back its value.
func BuildResolvedEvent(input VariantEventInput) Event {
	return buildVariantEvent(VerbResolved, input)
}

// BuildPrunedEvent reports that non-active blocks were dropped after load.
func BuildPrunedEvent(input VariantEventInput) Event {
	return buildVariantEvent(VerbPruned, input)
}

func buildVariantEvent(verb string, input VariantEventInput) Event {
	objectID := strings.TrimSpace(input.ID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Key)
	}
	metadata := cloneMap(input.Metadata)
	if input.Option != "" {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["option"] = input.Option
	}
	return Event{
		Verb:          verb,
		ActorID:       strings.TrimSpace(input.ActorID),
		ObjectType:    ObjectTypeVariant,
		ObjectID:      objectID,
		DefinitionKey: strings.TrimSpace(input.Key),
		Option:        input.Option,
		State:         input.State,
		Channel:       strings.TrimSpace(input.Channel),
		Metadata:      metadata,
		OccurredAt:    input.OccurredAt,
	}
}
