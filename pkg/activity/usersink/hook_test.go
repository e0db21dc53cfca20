package usersink_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-variants/pkg/activity"
	"github.com/goliatone/go-variants/pkg/activity/usersink"
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

func TestHookNotifyMapsVariantEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()

	event := activity.BuildResolvedEvent(activity.VariantEventInput{
		ActorID:    actorID.String(),
		Key:        "theme-choice",
		ID:         "theme-choice-6bmjch",
		Option:     "dark",
		State:      "resolved",
		Channel:    "variants",
		Metadata:   map[string]any{"path": "/"},
		OccurredAt: now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != actorID {
		t.Fatalf("expected actor/user %s got %s/%s", actorID, record.ActorID, record.UserID)
	}
	if record.Verb != activity.VerbResolved || record.ObjectType != activity.ObjectTypeVariant || record.ObjectID != "theme-choice-6bmjch" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "variants" {
		t.Fatalf("expected channel variants got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["definition_key"] != "theme-choice" || record.Data["option"] != "dark" || record.Data["state"] != "resolved" {
		t.Fatalf("unexpected data: %+v", record.Data)
	}
	if record.Data["path"] != "/" {
		t.Fatalf("expected metadata passthrough got %v", record.Data["path"])
	}
}

func TestHookNotifyAnonymousActor(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbPruned,
		ActorID:    "not-a-uuid",
		ObjectType: activity.ObjectTypeVariant,
		ObjectID:   "motion-c2zsrj",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if sink.records[0].ActorID != uuid.Nil {
		t.Fatalf("expected nil uuid for invalid actor, got %s", sink.records[0].ActorID)
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookWithoutSinkIsNoop(t *testing.T) {
	hook := usersink.Hook{}
	if err := hook.Notify(context.Background(), activity.Event{Verb: "x", ObjectType: "y", ObjectID: "z"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
