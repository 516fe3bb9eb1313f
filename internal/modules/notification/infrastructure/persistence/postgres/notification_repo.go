package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
)

type PgNotificationRepository struct {
	db *sqlx.DB
}

func NewPgNotificationRepository(db *sqlx.DB) *PgNotificationRepository {
	return &PgNotificationRepository{db: db}
}

// notificationRow is the flat persistence shape. Payload and actions are
// JSONB columns so new client fields survive round trips without schema
// changes.
type notificationRow struct {
	ID          uuid.UUID      `db:"id"`
	RecipientID uuid.UUID      `db:"recipient_id"`
	Kind        string         `db:"kind"`
	Title       string         `db:"title"`
	Body        string         `db:"body"`
	Priority    string         `db:"priority"`
	State       string         `db:"state"`
	Payload     []byte         `db:"payload"`
	Actions     []byte         `db:"actions"`
	Suppressed  bool           `db:"suppressed"`
	FailReason  sql.NullString `db:"fail_reason"`
	CreatedAt   time.Time      `db:"created_at"`
	ScheduledAt sql.NullTime   `db:"scheduled_at"`
}

func toRow(n *domain.Notification) (notificationRow, error) {
	row := notificationRow{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Kind:        string(n.Kind),
		Title:       n.Title,
		Body:        n.Body,
		Priority:    n.Priority.String(),
		State:       string(n.State),
		Suppressed:  n.Suppressed,
		CreatedAt:   n.CreatedAt,
	}
	if n.FailReason != "" {
		row.FailReason = sql.NullString{String: n.FailReason, Valid: true}
	}
	if n.ScheduledAt != nil {
		row.ScheduledAt = sql.NullTime{Time: *n.ScheduledAt, Valid: true}
	}
	if n.Payload != nil {
		b, err := json.Marshal(n.Payload)
		if err != nil {
			return notificationRow{}, fmt.Errorf("marshal payload: %w", err)
		}
		row.Payload = b
	}
	if len(n.Actions) > 0 {
		b, err := json.Marshal(n.Actions)
		if err != nil {
			return notificationRow{}, fmt.Errorf("marshal actions: %w", err)
		}
		row.Actions = b
	}
	return row, nil
}

func fromRow(row notificationRow) (domain.Notification, error) {
	n := domain.Notification{
		ID:          row.ID,
		RecipientID: row.RecipientID,
		Kind:        domain.Kind(row.Kind),
		Title:       row.Title,
		Body:        row.Body,
		Priority:    domain.ParsePriority(row.Priority),
		State:       domain.State(row.State),
		Suppressed:  row.Suppressed,
		CreatedAt:   row.CreatedAt,
	}
	if row.FailReason.Valid {
		n.FailReason = row.FailReason.String
	}
	if row.ScheduledAt.Valid {
		at := row.ScheduledAt.Time
		n.ScheduledAt = &at
	}
	if len(row.Payload) > 0 {
		var p domain.Payload
		if err := json.Unmarshal(row.Payload, &p); err != nil {
			return domain.Notification{}, fmt.Errorf("unmarshal payload: %w", err)
		}
		n.Payload = &p
	}
	if len(row.Actions) > 0 {
		if err := json.Unmarshal(row.Actions, &n.Actions); err != nil {
			return domain.Notification{}, fmt.Errorf("unmarshal actions: %w", err)
		}
	}
	return n, nil
}

func (r *PgNotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	row, err := toRow(n)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO notifications (id, recipient_id, kind, title, body, priority, state,
			payload, actions, suppressed, fail_reason, created_at, scheduled_at)
		VALUES (:id, :recipient_id, :kind, :title, :body, :priority, :state,
			:payload, :actions, :suppressed, :fail_reason, :created_at, :scheduled_at)
	`
	_, err = r.db.NamedExecContext(ctx, query, row)
	return err
}

func (r *PgNotificationRepository) UpdateState(ctx context.Context, n *domain.Notification) error {
	query := `
		UPDATE notifications
		SET state = $2, suppressed = $3, fail_reason = $4
		WHERE id = $1
	`
	failReason := sql.NullString{}
	if n.FailReason != "" {
		failReason = sql.NullString{String: n.FailReason, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query, n.ID, string(n.State), n.Suppressed, failReason)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

// LoadPage pages newest-first with a keyset cursor of the form
// "<created_at RFC3339Nano>|<id>". An empty returned cursor means the end.
func (r *PgNotificationRepository) LoadPage(ctx context.Context, recipientID uuid.UUID, cursor string, limit int) ([]domain.Notification, string, error) {
	query := `
		SELECT id, recipient_id, kind, title, body, priority, state,
			payload, actions, suppressed, fail_reason, created_at, scheduled_at
		FROM notifications
		WHERE recipient_id = $1
	`
	args := []interface{}{recipientID}
	if cursor != "" {
		afterTime, afterID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, afterTime, afterID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit+1)

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := fromRow(row)
		if err != nil {
			return nil, "", err
		}
		out = append(out, n)
	}
	return out, next, nil
}

func encodeCursor(at time.Time, id uuid.UUID) string {
	return at.UTC().Format(time.RFC3339Nano) + "|" + id.String()
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	parts := strings.SplitN(cursor, "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor %q", cursor)
	}
	at, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor %q: %w", cursor, err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor %q: %w", cursor, err)
	}
	return at, id, nil
}
