package persistence

import (
	"context"
	"errors"

	"github.com/incident-copilot/backend/internal/incidents"
	"github.com/incident-copilot/backend/internal/models"
	"gorm.io/gorm"
)

// IncidentRepository implements incidents.IncidentRepository on a GORM session.
type IncidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) conn(ctx context.Context) (*gorm.DB, error) {
	if r == nil || r.db == nil {
		return nil, ErrScopeInactive
	}
	return r.db.WithContext(ctx), nil
}

func (r *IncidentRepository) List(ctx context.Context, filter incidents.ListFilter) ([]incidents.Incident, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&models.Incident{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", string(*filter.Severity))
	}

	var records []models.Incident
	if err := query.Order("created_at DESC").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	result := make([]incidents.Incident, 0, len(records))
	for i := range records {
		result = append(result, *toDomainIncident(&records[i], false))
	}
	return result, nil
}

func (r *IncidentRepository) Get(ctx context.Context, id uint) (*incidents.Incident, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var record models.Incident
	if err := db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainIncident(&record, false), nil
}

// GetWithEvents loads the incident and its timeline in chronological order.
func (r *IncidentRepository) GetWithEvents(ctx context.Context, id uint) (*incidents.Incident, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var record models.Incident
	err = db.Preload("Events", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("occurred_at ASC").Order("id ASC")
	}).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainIncident(&record, true), nil
}

func (r *IncidentRepository) Create(ctx context.Context, fields incidents.NewIncident) (*incidents.Incident, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	record := models.Incident{
		Title:       fields.Title,
		Description: fields.Description,
		Severity:    fields.Severity,
		Status:      fields.Status,
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}

	// Re-read so timestamps carry the store's precision.
	if err := db.First(&record, record.ID).Error; err != nil {
		return nil, err
	}
	return toDomainIncident(&record, false), nil
}

// Update applies changes to an existing incident. It returns (nil, nil) when
// the incident does not exist. An empty change set writes nothing.
func (r *IncidentRepository) Update(ctx context.Context, id uint, changes incidents.IncidentChanges) (*incidents.Incident, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var record models.Incident
	if err := db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if changes.Empty() {
		return toDomainIncident(&record, false), nil
	}

	if err := db.Model(&record).Updates(incidentColumns(changes)).Error; err != nil {
		return nil, err
	}
	if err := db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return toDomainIncident(&record, false), nil
}

// Delete removes the incident and every event it owns.
func (r *IncidentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	var record models.Incident
	if err := db.Select("id").First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := db.Where("incident_id = ?", id).Delete(&models.TimelineEvent{}).Error; err != nil {
		return false, err
	}
	if err := db.Delete(&models.Incident{}, id).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *IncidentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&models.Incident{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ incidents.IncidentRepository = (*IncidentRepository)(nil)
