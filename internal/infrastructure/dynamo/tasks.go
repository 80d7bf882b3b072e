package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/taskboard-api/internal/domain"
)

// TaskRepo provides typed DynamoDB operations for the tasks table.
type TaskRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTaskRepo(client *dynamodb.Client, tableName string) *TaskRepo {
	return &TaskRepo{client: client, tableName: tableName}
}

func (r *TaskRepo) Put(ctx context.Context, t *domain.Task) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TaskRepo) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("task_id", taskID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
	}
	var t domain.Task
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List scans the whole tasks table. The collection is small enough for the
// deadline scanner to consume it in full every cycle.
func (r *TaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Task
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		tasks = append(tasks, page...)
		if out.LastEvaluatedKey == nil {
			return tasks, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *TaskRepo) Update(ctx context.Context, taskID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("task_id", taskID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *TaskRepo) Delete(ctx context.Context, taskID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("task_id", taskID),
	})
	return err
}
