package incidents

import (
	"context"
	"errors"
	"sort"
	"time"
)

// memoryStore backs the fake repositories. Writes are counted so tests can
// assert that rejected commands persisted nothing.
type memoryStore struct {
	nextIncident uint
	nextEvent    uint
	incidents    map[uint]Incident
	events       map[uint]TimelineEvent

	existsCalls int
	writes      int
	failWith    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		incidents: make(map[uint]Incident),
		events:    make(map[uint]TimelineEvent),
	}
}

type fakeUnitOfWork struct {
	store     *memoryStore
	committed bool
}

func (u *fakeUnitOfWork) Incidents() IncidentRepository { return fakeIncidents{u.store} }
func (u *fakeUnitOfWork) Events() EventRepository       { return fakeEvents{u.store} }
func (u *fakeUnitOfWork) Commit(context.Context) error  { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error               { return nil }

type fakeIncidents struct{ s *memoryStore }

func (r fakeIncidents) List(_ context.Context, filter ListFilter) ([]Incident, error) {
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	var out []Incident
	for _, inc := range r.s.incidents {
		if filter.Status != nil && inc.Status != *filter.Status {
			continue
		}
		if filter.Severity != nil && inc.Severity != *filter.Severity {
			continue
		}
		out = append(out, inc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeIncidents) Get(_ context.Context, id uint) (*Incident, error) {
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	inc, ok := r.s.incidents[id]
	if !ok {
		return nil, nil
	}
	inc.Events = []TimelineEvent{}
	return &inc, nil
}

func (r fakeIncidents) GetWithEvents(ctx context.Context, id uint) (*Incident, error) {
	inc, err := r.Get(ctx, id)
	if err != nil || inc == nil {
		return inc, err
	}
	inc.Events, _ = fakeEvents{r.s}.ListIncidentEvents(ctx, id)
	return inc, nil
}

func (r fakeIncidents) Create(_ context.Context, f NewIncident) (*Incident, error) {
	r.s.writes++
	r.s.nextIncident++
	now := time.Now().UTC()
	inc := Incident{
		ID:          r.s.nextIncident,
		Title:       f.Title,
		Description: f.Description,
		Severity:    f.Severity,
		Status:      f.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.incidents[inc.ID] = inc
	inc.Events = []TimelineEvent{}
	return &inc, nil
}

func (r fakeIncidents) Update(_ context.Context, id uint, c IncidentChanges) (*Incident, error) {
	inc, ok := r.s.incidents[id]
	if !ok {
		return nil, nil
	}
	if c.Empty() {
		return &inc, nil
	}
	r.s.writes++
	if c.Title != nil {
		inc.Title = *c.Title
	}
	if c.Description != nil {
		inc.Description = *c.Description
	}
	if c.Severity != nil {
		inc.Severity = *c.Severity
	}
	if c.Status != nil {
		inc.Status = *c.Status
	}
	r.s.incidents[id] = inc
	return &inc, nil
}

func (r fakeIncidents) Delete(_ context.Context, id uint) (bool, error) {
	if _, ok := r.s.incidents[id]; !ok {
		return false, nil
	}
	r.s.writes++
	delete(r.s.incidents, id)
	for eid, ev := range r.s.events {
		if ev.IncidentID == id {
			delete(r.s.events, eid)
		}
	}
	return true, nil
}

func (r fakeIncidents) Exists(_ context.Context, id uint) (bool, error) {
	r.s.existsCalls++
	_, ok := r.s.incidents[id]
	return ok, nil
}

type fakeEvents struct{ s *memoryStore }

func (r fakeEvents) ListIncidentEvents(_ context.Context, incidentID uint) ([]TimelineEvent, error) {
	out := []TimelineEvent{}
	for _, ev := range r.s.events {
		if ev.IncidentID == incidentID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r fakeEvents) Get(_ context.Context, incidentID, eventID uint) (*TimelineEvent, error) {
	ev, ok := r.s.events[eventID]
	if !ok || ev.IncidentID != incidentID {
		return nil, nil
	}
	return &ev, nil
}

func (r fakeEvents) Create(_ context.Context, incidentID uint, f NewTimelineEvent) (*TimelineEvent, error) {
	if _, ok := r.s.incidents[incidentID]; !ok {
		return nil, errors.New("foreign key violation")
	}
	r.s.writes++
	r.s.nextEvent++
	now := time.Now().UTC()
	ev := TimelineEvent{
		ID:         r.s.nextEvent,
		IncidentID: incidentID,
		OccurredAt: f.OccurredAt,
		EventType:  f.EventType,
		Message:    f.Message,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.events[ev.ID] = ev
	return &ev, nil
}

func (r fakeEvents) Update(ctx context.Context, incidentID, eventID uint, c EventChanges) (*TimelineEvent, error) {
	ev, err := r.Get(ctx, incidentID, eventID)
	if err != nil || ev == nil {
		return nil, err
	}
	if c.Empty() {
		return ev, nil
	}
	r.s.writes++
	if c.OccurredAt != nil {
		ev.OccurredAt = *c.OccurredAt
	}
	if c.EventType != nil {
		ev.EventType = *c.EventType
	}
	if c.Message != nil {
		ev.Message = *c.Message
	}
	r.s.events[eventID] = *ev
	return ev, nil
}

func (r fakeEvents) Delete(ctx context.Context, incidentID, eventID uint) (bool, error) {
	ev, _ := r.Get(ctx, incidentID, eventID)
	if ev == nil {
		return false, nil
	}
	r.s.writes++
	delete(r.s.events, eventID)
	return true, nil
}
