package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgxIface is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores submissions in the relational database.
type PostgresRepository struct {
	db PgxIface
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db PgxIface) *PostgresRepository {
	if db == nil {
		panic("submissions: pgx connection required")
	}
	return &PostgresRepository{db: db}
}

// Upsert inserts the submission or, on conversation_id conflict, replaces
// the stored payload. Re-delivery of the same webhook therefore converges
// on one row.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *WriteRecord) (*Submission, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	patientJSON, err := json.Marshal(rec.PatientData)
	if err != nil {
		return nil, fmt.Errorf("submissions: marshal patient data: %w", err)
	}
	var requestJSON []byte
	if rec.RequestData != nil {
		requestJSON, err = json.Marshal(rec.RequestData)
		if err != nil {
			return nil, fmt.Errorf("submissions: marshal request data: %w", err)
		}
	}

	query := `
		INSERT INTO submissions (
			id, conversation_id, agent_id, call_timestamp, call_duration_secs,
			caller_phone, status, patient_data, request_type, request_data,
			transcript, analysis
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (conversation_id) DO UPDATE SET
			agent_id = EXCLUDED.agent_id,
			call_timestamp = EXCLUDED.call_timestamp,
			call_duration_secs = EXCLUDED.call_duration_secs,
			caller_phone = EXCLUDED.caller_phone,
			status = EXCLUDED.status,
			patient_data = EXCLUDED.patient_data,
			request_type = EXCLUDED.request_type,
			request_data = EXCLUDED.request_data,
			transcript = EXCLUDED.transcript,
			analysis = EXCLUDED.analysis,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`
	var (
		id        string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := r.db.QueryRow(ctx, query,
		uuid.New(),
		rec.ConversationID,
		rec.AgentID,
		rec.CallTimestamp,
		rec.CallDurationSecs,
		rec.CallerPhone,
		rec.Status,
		patientJSON,
		rec.RequestType,
		requestJSON,
		rec.Transcript,
		[]byte(rec.Analysis),
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("submissions: upsert failed: %w", err)
	}

	return &Submission{
		ID:          id,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		WriteRecord: *rec,
	}, nil
}

// GetByConversationID fetches a submission by its conversation key.
func (r *PostgresRepository) GetByConversationID(ctx context.Context, conversationID string) (*Submission, error) {
	query := `
		SELECT id, conversation_id, agent_id, call_timestamp, call_duration_secs,
		       caller_phone, status, patient_data, request_type, request_data,
		       transcript, analysis, created_at, updated_at
		FROM submissions
		WHERE conversation_id = $1
	`
	row := r.db.QueryRow(ctx, query, conversationID)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("submissions: select failed: %w", err)
	}
	return sub, nil
}

// ListRecent returns up to limit submissions, newest call first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, conversation_id, agent_id, call_timestamp, call_duration_secs,
		       caller_phone, status, patient_data, request_type, request_data,
		       transcript, analysis, created_at, updated_at
		FROM submissions
		ORDER BY call_timestamp DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("submissions: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("submissions: scan failed: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("submissions: iterate failed: %w", err)
	}
	return out, nil
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var (
		sub         Submission
		patientJSON []byte
		requestJSON []byte
		analysis    []byte
	)
	if err := row.Scan(
		&sub.ID,
		&sub.ConversationID,
		&sub.AgentID,
		&sub.CallTimestamp,
		&sub.CallDurationSecs,
		&sub.CallerPhone,
		&sub.Status,
		&patientJSON,
		&sub.RequestType,
		&requestJSON,
		&sub.Transcript,
		&analysis,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(patientJSON) > 0 {
		if err := json.Unmarshal(patientJSON, &sub.PatientData); err != nil {
			return nil, fmt.Errorf("decode patient data: %w", err)
		}
	}
	if len(requestJSON) > 0 {
		if err := json.Unmarshal(requestJSON, &sub.RequestData); err != nil {
			return nil, fmt.Errorf("decode request data: %w", err)
		}
	}
	sub.Analysis = analysis
	return &sub, nil
}
