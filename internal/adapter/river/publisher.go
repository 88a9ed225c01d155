package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/folio-org/mod-translations/internal/domain"
)

// Compile-time check: Publisher implements domain.ChangePublisher.
var _ domain.ChangePublisher = (*Publisher)(nil)

// ChangeJobArgs carries a committed record change. River serializes it as
// JSON into its job queue table.
type ChangeJobArgs struct {
	Tenant   string `json:"tenant"`
	Table    string `json:"table"`
	Action   string `json:"action"`
	RecordID string `json:"record_id,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (ChangeJobArgs) Kind() string { return "record.changed" }

// InsertOpts limits retries of change notifications.
func (ChangeJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: 5}
}

// Change converts the job arguments back into a domain change.
func (a ChangeJobArgs) Change() domain.Change {
	return domain.Change{
		Tenant:   a.Tenant,
		Table:    a.Table,
		Action:   domain.Action(a.Action),
		RecordID: a.RecordID,
	}
}

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.ChangePublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a record change as an async job in River.
func (p *Publisher) Publish(ctx context.Context, change domain.Change) error {
	_, err := p.client.Insert(ctx, ChangeJobArgs{
		Tenant:   change.Tenant,
		Table:    change.Table,
		Action:   string(change.Action),
		RecordID: change.RecordID,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing change job: %w", err)
	}
	return nil
}
