package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Joseamica/backend/internal/model"
)

// PosCommandRepo persists the outbound command outbox.  It implements
// possync.CommandStore.
type PosCommandRepo struct {
	db *sql.DB
}

// NewPosCommandRepo returns a new PosCommandRepo bound to the given database.
func NewPosCommandRepo(db *sql.DB) *PosCommandRepo { return &PosCommandRepo{db: db} }

const posCommandColumns = `id, venue_id, entity_type, entity_id, command_type, payload,
	status, attempts, error_message, completed_at, created_at, updated_at`

func scanCommand(sc orderScanner) (*model.PosCommand, error) {
	var cmd model.PosCommand
	var payload []byte
	var errMsg sql.NullString
	var completedAt sql.NullTime
	err := sc.Scan(&cmd.ID, &cmd.VenueID, &cmd.EntityType, &cmd.EntityID, &cmd.CommandType,
		&payload, &cmd.Status, &cmd.Attempts, &errMsg, &completedAt, &cmd.CreatedAt, &cmd.UpdatedAt)
	if err != nil {
		return nil, err
	}
	cmd.Payload = json.RawMessage(payload)
	if errMsg.Valid {
		v := errMsg.String
		cmd.ErrorMessage = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		cmd.CompletedAt = &t
	}
	return &cmd, nil
}

// Insert records a new command row.
func (r *PosCommandRepo) Insert(ctx context.Context, cmd *model.PosCommand) error {
	const q = `INSERT INTO pos_commands (id, venue_id, entity_type, entity_id, command_type, payload, status, attempts)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, cmd.ID, cmd.VenueID, cmd.EntityType, cmd.EntityID,
		cmd.CommandType, []byte(cmd.Payload), cmd.Status, cmd.Attempts)
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID returns a command by its UUID, or ErrNotFound.
func (r *PosCommandRepo) GetByID(ctx context.Context, id string) (*model.PosCommand, error) {
	const q = `SELECT ` + posCommandColumns + ` FROM pos_commands WHERE id = ?`
	cmd, err := scanCommand(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cmd, err
}

// ListPending returns up to limit PENDING commands in enqueue order.
func (r *PosCommandRepo) ListPending(ctx context.Context, limit int) ([]model.PosCommand, error) {
	const q = `SELECT ` + posCommandColumns + ` FROM pos_commands WHERE status = ? ORDER BY created_at, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, model.CommandPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PosCommand, 0)
	for rows.Next() {
		cmd, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StartAttempt claims a PENDING command: one UPDATE guarded by the
// status column, so concurrent dispatchers cannot double-claim.  Zero
// affected rows map to ErrNotFound.
func (r *PosCommandRepo) StartAttempt(ctx context.Context, id string) error {
	const q = `UPDATE pos_commands
	           SET status = ?, attempts = attempts + 1, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.CommandProcessing, id, model.CommandPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Finish writes the outcome columns of a command after an attempt.
func (r *PosCommandRepo) Finish(ctx context.Context, cmd *model.PosCommand) error {
	var errMsg interface{}
	if cmd.ErrorMessage != nil {
		errMsg = *cmd.ErrorMessage
	}
	var completedAt interface{}
	if cmd.CompletedAt != nil {
		completedAt = cmd.CompletedAt.UTC().Format("2006-01-02 15:04:05")
	}
	const q = `UPDATE pos_commands
	           SET status = ?, error_message = ?, completed_at = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, cmd.Status, errMsg, completedAt, cmd.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, cmd.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}
