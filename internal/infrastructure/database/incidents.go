package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"suraksha-api/pkg/logger"
)

// IncidentStore persists audit rows for generated reports and dispatched
// alerts. Verdicts themselves are never persisted; only the report and
// alert side effects leave a trace.
type IncidentStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewIncidentStore creates an incident store over the given pool
func NewIncidentStore(pool *pgxpool.Pool, log *logger.Logger) *IncidentStore {
	return &IncidentStore{
		pool:   pool,
		logger: log.WithComponent("incident-store"),
	}
}

// RecordReport inserts an audit row for a generated report
func (s *IncidentStore) RecordReport(ctx context.Context, complaintType, incidentText string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO report_incidents (id, complaint_type, incident_text) VALUES ($1, $2, $3)`,
		uuid.New(), complaintType, incidentText,
	)
	if err != nil {
		return fmt.Errorf("insert report incident: %w", err)
	}
	return nil
}

// RecordAlert inserts an audit row for a dispatched alert
func (s *IncidentStore) RecordAlert(ctx context.Context, email, location, incidentText string, recipients []string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO alert_incidents (id, user_email, location, incident_text, recipients) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), email, location, incidentText, recipients,
	)
	if err != nil {
		return fmt.Errorf("insert alert incident: %w", err)
	}
	return nil
}
