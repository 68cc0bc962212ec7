package persistence

import (
	"context"
	"errors"

	"github.com/incident-copilot/backend/internal/incidents"
	"github.com/incident-copilot/backend/internal/models"
	"gorm.io/gorm"
)

// EventRepository implements incidents.EventRepository on a GORM session.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) conn(ctx context.Context) (*gorm.DB, error) {
	if r == nil || r.db == nil {
		return nil, ErrScopeInactive
	}
	return r.db.WithContext(ctx), nil
}

func (r *EventRepository) find(db *gorm.DB, incidentID, eventID uint) (*models.TimelineEvent, error) {
	var record models.TimelineEvent
	err := db.Where("id = ? AND incident_id = ?", eventID, incidentID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListIncidentEvents returns the timeline of one incident, oldest first.
func (r *EventRepository) ListIncidentEvents(ctx context.Context, incidentID uint) ([]incidents.TimelineEvent, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var records []models.TimelineEvent
	err = db.Where("incident_id = ?", incidentID).
		Order("occurred_at ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainEvents(records), nil
}

func (r *EventRepository) Get(ctx context.Context, incidentID, eventID uint) (*incidents.TimelineEvent, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	record, err := r.find(db, incidentID, eventID)
	if err != nil || record == nil {
		return nil, err
	}
	return toDomainEvent(record), nil
}

func (r *EventRepository) Create(ctx context.Context, incidentID uint, fields incidents.NewTimelineEvent) (*incidents.TimelineEvent, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	record := models.TimelineEvent{
		IncidentID: incidentID,
		OccurredAt: fields.OccurredAt.UTC(),
		EventType:  fields.EventType,
		Message:    fields.Message,
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	if err := db.First(&record, record.ID).Error; err != nil {
		return nil, err
	}
	return toDomainEvent(&record), nil
}

func (r *EventRepository) Update(ctx context.Context, incidentID, eventID uint, changes incidents.EventChanges) (*incidents.TimelineEvent, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	record, err := r.find(db, incidentID, eventID)
	if err != nil || record == nil {
		return nil, err
	}

	if changes.Empty() {
		return toDomainEvent(record), nil
	}

	if err := db.Model(record).Updates(eventColumns(changes)).Error; err != nil {
		return nil, err
	}
	if err := db.First(record, eventID).Error; err != nil {
		return nil, err
	}
	return toDomainEvent(record), nil
}

func (r *EventRepository) Delete(ctx context.Context, incidentID, eventID uint) (bool, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	result := db.Where("id = ? AND incident_id = ?", eventID, incidentID).Delete(&models.TimelineEvent{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ incidents.EventRepository = (*EventRepository)(nil)
