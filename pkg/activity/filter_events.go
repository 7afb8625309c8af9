package activity

import (
	"strings"
	"time"
)

// FilterEventInput describes the common fields for filter lifecycle events.
type FilterEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	Dimension      string
	OldValue       any
	NewValue       any
	Cleared        []string
	SnapshotID     string
	Revision       uint64
	OccurredAt     time.Time
}

// BuildStoreCreatedEvent constructs a normalized activity event for store creation.
func BuildStoreCreatedEvent(input FilterEventInput) Event {
	return buildFilterEvent("facets.store.created", "facets.store", input)
}

// BuildFilterSelectedEvent constructs an activity event for a dimension selection.
func BuildFilterSelectedEvent(input FilterEventInput) Event {
	return buildFilterEvent("facets.filter.selected", "facets.filter", input)
}

// BuildFilterClearedEvent constructs an activity event for a cleared dimension.
func BuildFilterClearedEvent(input FilterEventInput) Event {
	return buildFilterEvent("facets.filter.cleared", "facets.filter", input)
}

// BuildFilterResetEvent constructs an activity event for a full reset.
func BuildFilterResetEvent(input FilterEventInput) Event {
	return buildFilterEvent("facets.filter.reset", "facets.filter", input)
}

// BuildFilterReconciledEvent constructs an activity event describing the
// dimensions cleared by conflict reconciliation.
func BuildFilterReconciledEvent(input FilterEventInput) Event {
	return buildFilterEvent("facets.filter.reconciled", "facets.filter", input)
}

// buildFilterEvent assembles the event with the filter mutation on the
// first-class fields; Metadata passes through as caller extras only. ObjectID
// falls back Dimension, then SnapshotID, then the object type.
func buildFilterEvent(verb, objectType string, input FilterEventInput) Event {
	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Dimension)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.SnapshotID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     cloneStrings(input.Recipients),
		Dimension:      strings.TrimSpace(input.Dimension),
		OldValue:       input.OldValue,
		NewValue:       input.NewValue,
		Cleared:        cloneStrings(input.Cleared),
		SnapshotID:     strings.TrimSpace(input.SnapshotID),
		Revision:       input.Revision,
		Metadata:       cloneMap(input.Metadata),
		OccurredAt:     input.OccurredAt,
	}
}
