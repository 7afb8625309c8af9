package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-facets/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events to a go-users ActivitySink so filter
// interactions can feed user-activity audit streams. ActivityRecord has no
// filter-specific fields, so the event's dimension, values, cleared list, and
// snapshot provenance are flattened into the record's Data map alongside any
// caller metadata.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record := usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       recordData(normalized),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}

	return h.Sink.Log(ctx, record)
}

// recordData flattens the filter fields and caller metadata into one map.
func recordData(event activity.Event) map[string]any {
	data := make(map[string]any, len(event.Metadata)+8)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.Dimension != "" {
		data["dimension"] = event.Dimension
	}
	if event.OldValue != nil {
		data["old_value"] = event.OldValue
	}
	if event.NewValue != nil {
		data["new_value"] = event.NewValue
	}
	if len(event.Cleared) > 0 {
		data["cleared"] = append([]string{}, event.Cleared...)
	}
	if event.SnapshotID != "" {
		data["snapshot_id"] = event.SnapshotID
		data["revision"] = event.Revision
	}
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string{}, event.Recipients...)
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func parseUUID(input string) uuid.UUID {
	value := strings.TrimSpace(input)
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
