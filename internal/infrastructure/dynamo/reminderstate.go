package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/taskboard-api/internal/domain"
)

// ReminderStateRepo stores the reminder engine's whole state as a single
// document, giving the engine atomic load/replace semantics.
type ReminderStateRepo struct {
	client         *dynamodb.Client
	tableName      string
	installationID string
}

func NewReminderStateRepo(client *dynamodb.Client, tableName, installationID string) *ReminderStateRepo {
	return &ReminderStateRepo{client: client, tableName: tableName, installationID: installationID}
}

// Load fetches the state document. A missing document yields a fresh empty
// state rather than an error.
func (r *ReminderStateRepo) Load(ctx context.Context) (*domain.ReminderState, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("installation_id", r.installationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return domain.NewReminderState(r.installationID), nil
	}
	var s domain.ReminderState
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, fmt.Errorf("unmarshal reminder state: %w", err)
	}
	// Maps come back nil when empty; normalize so callers can write into them.
	for _, m := range []*map[string]time.Time{&s.SentOverdue, &s.SentUpcoming, &s.Dismissed, &s.QuotaStamps} {
		if *m == nil {
			*m = make(map[string]time.Time)
		}
	}
	return &s, nil
}

// Save replaces the state document wholesale.
func (r *ReminderStateRepo) Save(ctx context.Context, s *domain.ReminderState) error {
	s.InstallationID = r.installationID
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal reminder state: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
