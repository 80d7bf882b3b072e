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

// ProjectRepo provides typed DynamoDB operations for the projects table.
type ProjectRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewProjectRepo(client *dynamodb.Client, tableName string) *ProjectRepo {
	return &ProjectRepo{client: client, tableName: tableName}
}

func (r *ProjectRepo) Put(ctx context.Context, p *domain.Project) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ProjectRepo) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("project_id", projectID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}
	var p domain.Project
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List scans the whole projects table.
func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Project
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		projects = append(projects, page...)
		if out.LastEvaluatedKey == nil {
			return projects, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *ProjectRepo) Update(ctx context.Context, projectID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("project_id", projectID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *ProjectRepo) Delete(ctx context.Context, projectID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("project_id", projectID),
	})
	return err
}
