package incidents

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup() (*UseCases, *memoryStore) {
	store := newMemoryStore()
	return NewUseCases(&fakeUnitOfWork{store: store}), store
}

func ptr[T any](v T) *T { return &v }

func createIncident(t *testing.T, uc *UseCases, status Status) *Incident {
	t.Helper()
	inc, err := uc.CreateIncident(context.Background(), CreateIncidentCmd{
		Title:       "Database Outage",
		Description: "Primary is down",
		Severity:    SeveritySev1,
		Status:      status,
	})
	require.NoError(t, err)
	return inc
}

func TestCreateIncidentTrimsAndDefaults(t *testing.T) {
	uc, _ := setup()

	inc, err := uc.CreateIncident(context.Background(), CreateIncidentCmd{
		Title:       "  A  ",
		Description: "\tdetails\n",
		Severity:    SeveritySev2,
	})
	require.NoError(t, err)
	assert.Equal(t, "A", inc.Title)
	assert.Equal(t, "details", inc.Description)
	assert.Equal(t, StatusOpen, inc.Status)
	assert.Equal(t, SeveritySev2, inc.Severity)
	assert.NotNil(t, inc.Events)
	assert.Empty(t, inc.Events)
}

func TestCreateIncidentRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateIncidentCmd
		msg  string
	}{
		{"empty title", CreateIncidentCmd{Title: "", Description: "d", Severity: SeveritySev1}, "title cannot be empty"},
		{"whitespace title", CreateIncidentCmd{Title: "   ", Description: "d", Severity: SeveritySev1}, "title cannot be empty"},
		{"whitespace description", CreateIncidentCmd{Title: "t", Description: " \n ", Severity: SeveritySev1}, "description cannot be empty"},
		{"both blank reports title first", CreateIncidentCmd{Title: " ", Description: " ", Severity: SeveritySev1}, "title cannot be empty"},
		{"bad severity", CreateIncidentCmd{Title: "t", Description: "d", Severity: "sev9"}, "invalid severity: sev9"},
		{"bad status", CreateIncidentCmd{Title: "t", Description: "d", Severity: SeveritySev1, Status: "closed"}, "invalid status: closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store := setup()

			_, err := uc.CreateIncident(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.msg, err.Error())
			assert.Zero(t, store.writes)
			assert.Empty(t, store.incidents)
		})
	}
}

func TestGetIncident(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)

	_, err := uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{
		OccurredAt: time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC),
		EventType:  "note",
		Message:    "Investigation started",
	})
	require.NoError(t, err)

	got, err := uc.GetIncident(ctx, inc.ID, true)
	require.NoError(t, err)
	assert.Len(t, got.Events, 1)

	got, err = uc.GetIncident(ctx, inc.ID, false)
	require.NoError(t, err)
	assert.Empty(t, got.Events)

	_, err = uc.GetIncident(ctx, 999, true)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
	assert.Equal(t, "Incident not found", err.Error())
}

func TestListIncidentsFilters(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()
	createIncident(t, uc, StatusOpen)
	createIncident(t, uc, StatusInvestigating)

	all, err := uc.ListIncidents(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := uc.ListIncidents(ctx, ListFilter{Status: ptr(StatusOpen)})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, StatusOpen, open[0].Status)
}

func TestListIncidentsWrapsStorageErrors(t *testing.T) {
	uc, store := setup()
	boom := errors.New("connection reset")
	store.failWith = boom

	_, err := uc.ListIncidents(context.Background(), ListFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestUpdateIncidentTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed path to resolved", func(t *testing.T) {
		uc, _ := setup()
		inc := createIncident(t, uc, StatusOpen)

		for _, next := range []Status{StatusInvestigating, StatusMitigated, StatusResolved} {
			updated, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Status: ptr(next)})
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
		}
	})

	t.Run("backwards move rejected and status kept", func(t *testing.T) {
		uc, store := setup()
		inc := createIncident(t, uc, StatusInvestigating)
		writes := store.writes

		_, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Status: ptr(StatusOpen)})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "invalid status transition: investigating -> open", err.Error())
		assert.Equal(t, writes, store.writes)
		assert.Equal(t, StatusInvestigating, store.incidents[inc.ID].Status)
	})

	t.Run("resolved is terminal", func(t *testing.T) {
		uc, _ := setup()
		inc := createIncident(t, uc, StatusResolved)

		_, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Status: ptr(StatusInvestigating)})
		require.Error(t, err)
		assert.Equal(t, "invalid status transition: resolved -> investigating", err.Error())

		same, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Status: ptr(StatusResolved)})
		require.NoError(t, err)
		assert.Equal(t, StatusResolved, same.Status)
	})
}

func TestUpdateIncidentAllStatusPairs(t *testing.T) {
	ctx := context.Background()

	for _, from := range Statuses {
		for _, to := range Statuses {
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				uc, store := setup()
				inc := createIncident(t, uc, from)
				writes := store.writes

				updated, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Status: ptr(to)})
				if CanTransition(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, updated.Status)
					assert.Equal(t, to, store.incidents[inc.ID].Status)
					return
				}

				require.Error(t, err)
				assert.True(t, IsValidation(err))
				assert.Equal(t, fmt.Sprintf("invalid status transition: %s -> %s", from, to), err.Error())
				assert.Equal(t, from, store.incidents[inc.ID].Status)
				assert.Equal(t, writes, store.writes)
			})
		}
	}
}

func TestUpdateIncidentValidatesBeforeWriting(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusInvestigating)
	writes := store.writes

	// A valid title does not get written when the status is rejected.
	_, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{
		Title:  ptr("Renamed"),
		Status: ptr(StatusOpen),
	})
	require.Error(t, err)
	assert.Equal(t, writes, store.writes)
	assert.Equal(t, "Database Outage", store.incidents[inc.ID].Title)

	// Title is checked first.
	_, err = uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{
		Title:       ptr("  "),
		Description: ptr(""),
		Status:      ptr(StatusOpen),
	})
	require.Error(t, err)
	assert.Equal(t, "title cannot be empty", err.Error())

	_, err = uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Description: ptr(" ")})
	require.Error(t, err)
	assert.Equal(t, "description cannot be empty", err.Error())

	_, err = uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Severity: ptr(Severity("sev0"))})
	require.Error(t, err)
	assert.Equal(t, "invalid severity: sev0", err.Error())
	assert.Equal(t, writes, store.writes)
}

func TestUpdateIncidentPartial(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)

	updated, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{Title: ptr("  New title ")})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Primary is down", updated.Description)
	assert.Equal(t, SeveritySev1, updated.Severity)

	writes := store.writes
	same, err := uc.UpdateIncident(ctx, inc.ID, UpdateIncidentCmd{})
	require.NoError(t, err)
	assert.Equal(t, "New title", same.Title)
	assert.Equal(t, writes, store.writes)

	_, err = uc.UpdateIncident(ctx, 999, UpdateIncidentCmd{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestDeleteIncident(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)
	_, err := uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: time.Now(), EventType: "note", Message: "hello"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteIncident(ctx, inc.ID))
	assert.Empty(t, store.incidents)
	assert.Empty(t, store.events)

	err = uc.DeleteIncident(ctx, inc.ID)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestCreateEvent(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)
	at := time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC)

	ev, err := uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{
		OccurredAt: at,
		EventType:  "  note ",
		Message:    " Investigation started ",
	})
	require.NoError(t, err)
	assert.Equal(t, inc.ID, ev.IncidentID)
	assert.Equal(t, "note", ev.EventType)
	assert.Equal(t, "Investigation started", ev.Message)
	assert.True(t, at.Equal(ev.OccurredAt))

	writes := store.writes
	_, err = uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: at, EventType: " ", Message: "valid"})
	require.Error(t, err)
	assert.Equal(t, "event_type cannot be empty", err.Error())

	_, err = uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: at, EventType: "note", Message: "  "})
	require.Error(t, err)
	assert.Equal(t, "message cannot be empty", err.Error())
	assert.Equal(t, writes, store.writes)
}

func TestCreateEventMissingIncidentWinsOverValidation(t *testing.T) {
	uc, store := setup()

	_, err := uc.CreateEvent(context.Background(), 42, CreateTimelineEventCmd{EventType: "", Message: ""})
	assert.ErrorIs(t, err, ErrIncidentNotFound)
	assert.Zero(t, store.writes)
}

func TestGetEventDisambiguatesMisses(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)
	ev, err := uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: time.Now(), EventType: "note", Message: "hello"})
	require.NoError(t, err)

	store.existsCalls = 0
	got, err := uc.GetEvent(ctx, inc.ID, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)
	assert.Zero(t, store.existsCalls, "hit path must not check the incident")

	_, err = uc.GetEvent(ctx, 123, ev.ID)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
	assert.Equal(t, "Incident not found", err.Error())

	_, err = uc.GetEvent(ctx, inc.ID, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.Equal(t, "Event not found", err.Error())
	assert.Equal(t, 2, store.existsCalls)
}

func TestGetEventOfAnotherIncident(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()
	first := createIncident(t, uc, StatusOpen)
	second := createIncident(t, uc, StatusOpen)
	ev, err := uc.CreateEvent(ctx, first.ID, CreateTimelineEventCmd{OccurredAt: time.Now(), EventType: "note", Message: "hello"})
	require.NoError(t, err)

	_, err = uc.GetEvent(ctx, second.ID, ev.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateEvent(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)
	ev, err := uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: time.Now(), EventType: "note", Message: "hello"})
	require.NoError(t, err)

	updated, err := uc.UpdateEvent(ctx, inc.ID, ev.ID, UpdateTimelineEventCmd{Message: ptr(" edited ")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Message)
	assert.Equal(t, "note", updated.EventType)

	writes := store.writes
	_, err = uc.UpdateEvent(ctx, inc.ID, ev.ID, UpdateTimelineEventCmd{EventType: ptr(" ")})
	require.Error(t, err)
	assert.Equal(t, "event_type cannot be empty", err.Error())
	assert.Equal(t, writes, store.writes)

	_, err = uc.UpdateEvent(ctx, inc.ID, 999, UpdateTimelineEventCmd{Message: ptr("edited")})
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = uc.UpdateEvent(ctx, 999, ev.ID, UpdateTimelineEventCmd{Message: ptr("edited")})
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestDeleteEvent(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)
	ev, err := uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: time.Now(), EventType: "note", Message: "hello"})
	require.NoError(t, err)

	store.existsCalls = 0
	require.NoError(t, uc.DeleteEvent(ctx, inc.ID, ev.ID))
	assert.Zero(t, store.existsCalls)
	assert.Empty(t, store.events)

	assert.ErrorIs(t, uc.DeleteEvent(ctx, inc.ID, ev.ID), ErrEventNotFound)
	assert.ErrorIs(t, uc.DeleteEvent(ctx, 999, ev.ID), ErrIncidentNotFound)
}

func TestListEvents(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()
	inc := createIncident(t, uc, StatusOpen)
	base := time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC)

	_, err := uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: base.Add(time.Hour), EventType: "update", Message: "later"})
	require.NoError(t, err)
	_, err = uc.CreateEvent(ctx, inc.ID, CreateTimelineEventCmd{OccurredAt: base, EventType: "note", Message: "earlier"})
	require.NoError(t, err)

	events, err := uc.ListEvents(ctx, inc.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "earlier", events[0].Message)
	assert.Equal(t, "later", events[1].Message)

	_, err = uc.ListEvents(ctx, 999)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}
