package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"eventosapi/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns an EventRepository over the eventos collection.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, doc
		FROM eventos
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("list", err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, storeError("list", err)
		}
		e, err := decodeEvent(id, raw)
		if err != nil {
			return nil, storeError("decode", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list", err)
	}
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT doc FROM eventos WHERE id = $1`
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError("get", err)
	}
	e, err := decodeEvent(id, raw)
	if err != nil {
		return nil, storeError("decode", err)
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	raw, err := json.Marshal(newEventDocument(e))
	if err != nil {
		return storeError("encode", err)
	}
	id := uuid.NewString()
	query := `
		INSERT INTO eventos (id, doc)
		VALUES ($1, $2)
	`
	if _, err := r.DB.ExecContext(ctx, query, id, raw); err != nil {
		return storeError("create", err)
	}
	e.ID = id
	return nil
}

// mergeQuery merges a partial document into the stored one; top-level keys in $2 replace those in doc.
const mergeQuery = `
	UPDATE eventos
	SET doc = doc || $2::jsonb, updated_at = NOW()
	WHERE id = $1
	RETURNING doc
`

func (r *eventRepository) Update(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	if patch == nil || patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	raw, err := encodePatch(patch)
	if err != nil {
		return nil, storeError("encode", err)
	}
	var merged []byte
	if err := r.DB.QueryRowContext(ctx, mergeQuery, id, raw).Scan(&merged); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError("update", err)
	}
	e, err := decodeEvent(id, merged)
	if err != nil {
		return nil, storeError("decode", err)
	}
	return e, nil
}

// Modify locks the document row (SELECT ... FOR UPDATE) for the whole read-modify-write, so concurrent
// modifications of one event serialize instead of overwriting each other.
func (r *eventRepository) Modify(ctx context.Context, id string, fn domain.ModifyFunc) (result *domain.Event, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeError("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var raw []byte
	if err = tx.QueryRowContext(ctx, `SELECT doc FROM eventos WHERE id = $1 FOR UPDATE`, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
			return nil, err
		}
		err = storeError("lock", err)
		return nil, err
	}
	current, err := decodeEvent(id, raw)
	if err != nil {
		err = storeError("decode", err)
		return nil, err
	}

	patch, err := fn(current)
	if err != nil {
		return nil, err
	}

	result = current
	if patch != nil && !patch.IsEmpty() {
		var patchRaw, merged []byte
		if patchRaw, err = encodePatch(patch); err != nil {
			err = storeError("encode", err)
			return nil, err
		}
		if err = tx.QueryRowContext(ctx, mergeQuery, id, patchRaw).Scan(&merged); err != nil {
			err = storeError("update", err)
			return nil, err
		}
		if result, err = decodeEvent(id, merged); err != nil {
			err = storeError("decode", err)
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = storeError("commit", err)
		return nil, err
	}
	return result, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM eventos WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return storeError("delete", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError("delete", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Ping(ctx context.Context) error {
	if err := r.DB.PingContext(ctx); err != nil {
		return storeError("ping", err)
	}
	return nil
}
