package repository

import (
	"context"
	"time"

	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// NotificationJob is one pending dispatch in the outbox. Jobs are written in
// the confirmation transaction and drained by the worker, so a confirmed
// reservation can never lose its notifications and a rolled-back confirm can
// never leak them.
type NotificationJob struct {
	ID          uuid.UUID
	Channel     string
	MessageType string
	Payload     []byte
	RunAt       time.Time
	Attempts    int32
	Status      string
	LastError   *string
}

const (
	JobStatusQueued = "queued"
	JobStatusSent   = "sent"
	JobStatusFailed = "failed"
)

type NotificationRepository struct {
	db infra.DBTX
}

func NewNotificationRepository(db infra.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, channel, messageType string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_jobs (id, channel, message_type, payload, run_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), channel, messageType, payload, runAt, JobStatusQueued,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}

// ClaimPending locks a batch of due jobs for one worker pass. SKIP LOCKED
// keeps concurrent workers from double-sending the same job.
func (r *NotificationRepository) ClaimPending(ctx context.Context, limit int32) ([]NotificationJob, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, channel, message_type, payload, run_at, attempts, status, last_error
		FROM notification_jobs
		WHERE status = $1 AND run_at <= now()
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`,
		JobStatusQueued, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim pending notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var job NotificationJob
		if err := rows.Scan(&job.ID, &job.Channel, &job.MessageType, &job.Payload,
			&job.RunAt, &job.Attempts, &job.Status, &job.LastError); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job row", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification job rows", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, jobID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET status = $2, attempts = attempts + 1, last_error = NULL, updated_at = now()
		WHERE id = $1`,
		jobID, JobStatusSent,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

// MarkFailed records the attempt; the job stays queued for a delayed retry
// until maxAttempts is exhausted, then parks as failed.
func (r *NotificationRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, dispatchErr string, retryAt time.Time, maxAttempts int32) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
		    last_error = $2,
		    run_at = $3,
		    status = CASE WHEN attempts + 1 >= $4 THEN $5 ELSE status END,
		    updated_at = now()
		WHERE id = $1`,
		jobID, pgconv.StringToPgtype(dispatchErr), retryAt, maxAttempts, JobStatusFailed,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
