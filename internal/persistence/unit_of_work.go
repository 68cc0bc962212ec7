// Package persistence provides the GORM implementations of the incident
// repositories and the unit of work that scopes them to one transaction.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/incident-copilot/backend/internal/incidents"
	"github.com/incident-copilot/backend/internal/logger"
	"gorm.io/gorm"
)

var (
	ErrSessionConfig = errors.New("unit of work: provide exactly one of WithSession or WithSessionFactory")
	ErrScopeActive   = errors.New("unit of work: scope already active")
	ErrScopeInactive = errors.New("unit of work: no active scope")
)

// SessionFactory opens a new transaction for one unit of work.
type SessionFactory func(ctx context.Context) (*gorm.DB, error)

// TxSessionFactory returns a factory that begins a transaction on db.
func TxSessionFactory(db *gorm.DB) SessionFactory {
	return func(ctx context.Context) (*gorm.DB, error) {
		tx := db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		return tx, nil
	}
}

type Option func(*UnitOfWork)

// WithSession runs the unit of work on a transaction the caller already
// opened. With closeOnExit the unit of work takes ownership and commits or
// rolls back that transaction itself; otherwise it works inside a savepoint
// and leaves the outer transaction for the caller to finish.
func WithSession(tx *gorm.DB, closeOnExit bool) Option {
	return func(u *UnitOfWork) {
		u.external = tx
		u.closeOnExit = closeOnExit
	}
}

// WithSessionFactory makes every scope open its own transaction.
func WithSessionFactory(factory SessionFactory) Option {
	return func(u *UnitOfWork) {
		u.factory = factory
	}
}

var savepointSeq atomic.Uint64

// UnitOfWork binds an IncidentRepository and an EventRepository to one
// transaction. It is not safe for concurrent use.
type UnitOfWork struct {
	external    *gorm.DB
	closeOnExit bool
	factory     SessionFactory

	session   *gorm.DB
	savepoint string
	active    bool
	finished  bool

	incidents *IncidentRepository
	events    *EventRepository
}

func NewUnitOfWork(opts ...Option) (*UnitOfWork, error) {
	u := &UnitOfWork{}
	for _, opt := range opts {
		opt(u)
	}
	if (u.external == nil) == (u.factory == nil) {
		return nil, ErrSessionConfig
	}
	return u, nil
}

// Begin enters the scope and binds both repositories to its session.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return ErrScopeActive
	}

	var session *gorm.DB
	if u.factory != nil {
		tx, err := u.factory(ctx)
		if err != nil {
			return err
		}
		session = tx
	} else {
		session = u.external.WithContext(ctx)
		if !u.closeOnExit {
			name := fmt.Sprintf("uow_%d", savepointSeq.Add(1))
			if err := session.SavePoint(name).Error; err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}
			u.savepoint = name
		}
	}

	u.session = session
	u.incidents = NewIncidentRepository(session)
	u.events = NewEventRepository(session)
	u.active = true
	u.finished = false
	return nil
}

func (u *UnitOfWork) Incidents() incidents.IncidentRepository {
	return u.incidents
}

func (u *UnitOfWork) Events() incidents.EventRepository {
	return u.events
}

// retained reports whether the caller keeps ownership of the outer transaction.
func (u *UnitOfWork) retained() bool {
	return u.savepoint != ""
}

// Commit finishes the scope successfully. Calling it again after the scope
// finished is a no-op.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.active {
		if u.finished {
			return nil
		}
		return ErrScopeInactive
	}
	defer u.release()

	if u.retained() {
		if err := u.session.WithContext(ctx).Exec("RELEASE SAVEPOINT " + u.savepoint).Error; err != nil {
			return fmt.Errorf("failed to release savepoint: %w", err)
		}
		return nil
	}
	if err := u.session.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the work of the scope. Outside an active scope it is a no-op.
func (u *UnitOfWork) Rollback() error {
	if !u.active {
		return nil
	}
	defer u.release()

	if u.retained() {
		if err := u.session.RollbackTo(u.savepoint).Error; err != nil {
			return fmt.Errorf("failed to roll back to savepoint: %w", err)
		}
		return nil
	}
	if err := u.session.Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// release detaches the session; repositories handed out earlier stop working.
func (u *UnitOfWork) release() {
	u.active = false
	u.finished = true
	u.savepoint = ""
	u.session = nil
	u.incidents = nil
	u.events = nil
}

// Do runs fn inside one scope: commit when fn returns nil, rollback when it
// returns an error or panics. fn's error is returned unchanged.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow incidents.UnitOfWork) error) error {
	if err := u.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			u.rollbackAfter(fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := fn(u); err != nil {
		u.rollbackAfter(err)
		return err
	}
	return u.Commit(ctx)
}

func (u *UnitOfWork) rollbackAfter(cause error) {
	if err := u.Rollback(); err != nil {
		logger.WithError(err, "unit_of_work").Error("Rollback failed", map[string]interface{}{
			"cause": cause.Error(),
		})
	}
}

var _ incidents.UnitOfWork = (*UnitOfWork)(nil)

// Transactor opens a fresh factory-backed unit of work for every call.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) Do(ctx context.Context, fn func(uow incidents.UnitOfWork) error) error {
	uow, err := NewUnitOfWork(WithSessionFactory(TxSessionFactory(t.db)))
	if err != nil {
		return err
	}
	return uow.Do(ctx, fn)
}

var _ incidents.Transactor = (*Transactor)(nil)
