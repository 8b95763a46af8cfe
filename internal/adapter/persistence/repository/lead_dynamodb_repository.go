package repository

import (
	"context"
	"fmt"

	"dealflow/internal/domain/entities"
	"dealflow/internal/domain/workflow"
	"dealflow/internal/usecase/interfaces"
	"dealflow/pkg"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultLeadsTableName = "leads"

type leadItem struct {
	ID              string `dynamodbav:"id"`
	ClientName      string `dynamodbav:"client_name"`
	Company         string `dynamodbav:"company,omitempty"`
	Timezone        string `dynamodbav:"timezone,omitempty"`
	Source          string `dynamodbav:"source,omitempty"`
	Status          string `dynamodbav:"status"`
	CreatedBy       string `dynamodbav:"created_by"`
	ProjectOverview string `dynamodbav:"project_overview,omitempty"`
	EstimateID      string `dynamodbav:"estimate_id,omitempty"`
	RejectionReason string `dynamodbav:"rejection_reason,omitempty"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
}

// LeadDynamoRepository persists Lead entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// SaveTransition is a conditional UpdateItem keyed on the expected current
// status. That compare-and-swap is the whole lost-update story: two racing
// actors both validate against the same snapshot, but only the first commit
// matches the condition; the loser gets pkg.ErrConflict and must reload.
type LeadDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ILeadRepository = (*LeadDynamoRepository)(nil)

func NewLeadDynamoRepository(ddb *dynamodb.Client) *LeadDynamoRepository {
	return &LeadDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("LEADS_TABLE", defaultLeadsTableName),
	}
}

func (r *LeadDynamoRepository) Create(ctx context.Context, l entities.Lead) (entities.Lead, error) {
	av, err := attributevalue.MarshalMap(toLeadItem(l))
	if err != nil {
		return entities.Lead{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.Lead{}, err
	}
	return l, nil
}

func (r *LeadDynamoRepository) GetByID(ctx context.Context, id string) (entities.Lead, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Lead{}, err
	}
	if len(out.Item) == 0 {
		return entities.Lead{}, nil
	}

	var it leadItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Lead{}, err
	}
	return fromLeadItem(it), nil
}

func (r *LeadDynamoRepository) List(ctx context.Context) ([]entities.Lead, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	var items []leadItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	leads := make([]entities.Lead, 0, len(items))
	for _, it := range items {
		leads = append(leads, fromLeadItem(it))
	}
	return leads, nil
}

func (r *LeadDynamoRepository) SaveTransition(ctx context.Context, id string, expected, next entities.LeadStatus, patch workflow.Patch) (entities.Lead, error) {
	expr := "SET #status = :next, #updated_at = :updated_at"
	names := map[string]string{"#status": "status", "#updated_at": "updated_at"}
	vals := map[string]types.AttributeValue{
		":next":       &types.AttributeValueMemberS{Value: string(next)},
		":expected":   &types.AttributeValueMemberS{Value: string(expected)},
		":updated_at": &types.AttributeValueMemberS{Value: nowStamp()},
	}
	if patch.ProjectOverview != "" {
		expr += ", #project_overview = :project_overview"
		names["#project_overview"] = "project_overview"
		vals[":project_overview"] = &types.AttributeValueMemberS{Value: patch.ProjectOverview}
	}
	if patch.EstimateID != "" {
		expr += ", #estimate_id = :estimate_id"
		names["#estimate_id"] = "estimate_id"
		vals[":estimate_id"] = &types.AttributeValueMemberS{Value: patch.EstimateID}
	}
	if patch.RejectionReason != "" {
		expr += ", #rejection_reason = :rejection_reason"
		names["#rejection_reason"] = "rejection_reason"
		vals[":rejection_reason"] = &types.AttributeValueMemberS{Value: patch.RejectionReason}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id) AND #status = :expected"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: vals,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if conditionalFailed(err) {
			return entities.Lead{}, r.classifyConditionFailure(ctx, id)
		}
		return entities.Lead{}, err
	}

	var it leadItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Lead{}, err
	}
	return fromLeadItem(it), nil
}

// A failed condition means either the lead vanished or its status moved under
// us; one consistent read tells them apart.
func (r *LeadDynamoRepository) classifyConditionFailure(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.ID == "" {
		return fmt.Errorf("%w: lead %s", pkg.ErrNotFound, id)
	}
	return fmt.Errorf("%w: lead %s status changed concurrently", pkg.ErrConflict, id)
}

func toLeadItem(l entities.Lead) leadItem {
	return leadItem{
		ID:              l.ID,
		ClientName:      l.ClientName,
		Company:         l.Company,
		Timezone:        l.Timezone,
		Source:          l.Source,
		Status:          string(l.Status),
		CreatedBy:       l.CreatedBy,
		ProjectOverview: l.ProjectOverview,
		EstimateID:      l.EstimateID,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:       l.UpdatedAt.UTC().Format(timeFormat),
	}
}

func fromLeadItem(it leadItem) entities.Lead {
	return entities.Lead{
		ID:              it.ID,
		ClientName:      it.ClientName,
		Company:         it.Company,
		Timezone:        it.Timezone,
		Source:          it.Source,
		Status:          entities.LeadStatus(it.Status),
		CreatedBy:       it.CreatedBy,
		ProjectOverview: it.ProjectOverview,
		EstimateID:      it.EstimateID,
		RejectionReason: it.RejectionReason,
		CreatedAt:       parseStamp(it.CreatedAt),
		UpdatedAt:       parseStamp(it.UpdatedAt),
	}
}
