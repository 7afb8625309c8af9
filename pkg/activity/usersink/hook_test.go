package usersink

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-facets/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookMapsEventToActivityRecord(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}
	actorID := uuid.NewString()

	event := activity.BuildFilterSelectedEvent(activity.FilterEventInput{
		ActorID:        actorID,
		Dimension:      "category",
		NewValue:       "Shirt",
		SnapshotID:     "snap-1",
		Revision:       2,
		Channel:        "facets",
		DefinitionCode: "filters",
		Recipients:     []string{"ops"},
		OccurredAt:     time.Now(),
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected one record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.Verb != "facets.filter.selected" || record.ObjectType != "facets.filter" || record.ObjectID != "category" {
		t.Fatalf("unexpected record identity: %+v", record)
	}
	if record.ActorID.String() != actorID {
		t.Fatalf("expected actor UUID parsed, got %v", record.ActorID)
	}
	if record.Data["dimension"] != "category" || record.Data["new_value"] != "Shirt" {
		t.Fatalf("expected filter fields flattened into data, got %+v", record.Data)
	}
	if record.Data["snapshot_id"] != "snap-1" || record.Data["revision"] != uint64(2) {
		t.Fatalf("expected snapshot provenance in data, got %+v", record.Data)
	}
	if record.Data["definition_code"] != "filters" {
		t.Fatalf("expected definition code in data, got %+v", record.Data)
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "ops" {
		t.Fatalf("expected recipients in data, got %+v", record.Data)
	}
}

func TestHookAbsorbsInvalidActorIDs(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	event := activity.BuildFilterResetEvent(activity.FilterEventInput{
		ActorID:    "not-a-uuid",
		SnapshotID: "snap-1",
	})
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.records[0].ActorID != uuid.Nil {
		t.Fatalf("expected nil UUID for unparseable actor, got %v", sink.records[0].ActorID)
	}
}

func TestHookSkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{Verb: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected incomplete event skipped, got %d records", len(sink.records))
	}
}

func TestHookNilSink(t *testing.T) {
	hook := Hook{}
	event := activity.BuildFilterResetEvent(activity.FilterEventInput{SnapshotID: "snap-1"})
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("expected nil sink to be a no-op, got %v", err)
	}
}
