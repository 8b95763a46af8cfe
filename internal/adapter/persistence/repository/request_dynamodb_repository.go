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

const defaultRequestsTableName = "requests"

type requestItem struct {
	ID               string `dynamodbav:"id"`
	LeadID           string `dynamodbav:"lead_id,omitempty"`
	ProjectID        string `dynamodbav:"project_id,omitempty"`
	ClientName       string `dynamodbav:"client_name"`
	ProjectName      string `dynamodbav:"project_name,omitempty"`
	Description      string `dynamodbav:"description,omitempty"`
	ScopeDescription string `dynamodbav:"scope_description,omitempty"`
	Status           string `dynamodbav:"status"`
	CreatedBy        string `dynamodbav:"created_by"`
	ProjectOverview  string `dynamodbav:"project_overview,omitempty"`
	EstimateID       string `dynamodbav:"estimate_id,omitempty"`
	RejectionReason  string `dynamodbav:"rejection_reason,omitempty"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
}

// RequestDynamoRepository persists Request entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Same compare-and-swap contract as LeadDynamoRepository.
type RequestDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IRequestRepository = (*RequestDynamoRepository)(nil)

func NewRequestDynamoRepository(ddb *dynamodb.Client) *RequestDynamoRepository {
	return &RequestDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("REQUESTS_TABLE", defaultRequestsTableName),
	}
}

func (r *RequestDynamoRepository) Create(ctx context.Context, req entities.Request) (entities.Request, error) {
	av, err := attributevalue.MarshalMap(toRequestItem(req))
	if err != nil {
		return entities.Request{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.Request{}, err
	}
	return req, nil
}

func (r *RequestDynamoRepository) GetByID(ctx context.Context, id string) (entities.Request, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Request{}, err
	}
	if len(out.Item) == 0 {
		return entities.Request{}, nil
	}

	var it requestItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Request{}, err
	}
	return fromRequestItem(it), nil
}

func (r *RequestDynamoRepository) List(ctx context.Context) ([]entities.Request, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	var items []requestItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	requests := make([]entities.Request, 0, len(items))
	for _, it := range items {
		requests = append(requests, fromRequestItem(it))
	}
	return requests, nil
}

func (r *RequestDynamoRepository) SaveTransition(ctx context.Context, id string, expected, next entities.RequestStatus, patch workflow.Patch) (entities.Request, error) {
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
			return entities.Request{}, r.classifyConditionFailure(ctx, id)
		}
		return entities.Request{}, err
	}

	var it requestItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Request{}, err
	}
	return fromRequestItem(it), nil
}

func (r *RequestDynamoRepository) classifyConditionFailure(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.ID == "" {
		return fmt.Errorf("%w: request %s", pkg.ErrNotFound, id)
	}
	return fmt.Errorf("%w: request %s status changed concurrently", pkg.ErrConflict, id)
}

func toRequestItem(req entities.Request) requestItem {
	return requestItem{
		ID:               req.ID,
		LeadID:           req.LeadID,
		ProjectID:        req.ProjectID,
		ClientName:       req.ClientName,
		ProjectName:      req.ProjectName,
		Description:      req.Description,
		ScopeDescription: req.ScopeDescription,
		Status:           string(req.Status),
		CreatedBy:        req.CreatedBy,
		ProjectOverview:  req.ProjectOverview,
		EstimateID:       req.EstimateID,
		RejectionReason:  req.RejectionReason,
		CreatedAt:        req.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:        req.UpdatedAt.UTC().Format(timeFormat),
	}
}

func fromRequestItem(it requestItem) entities.Request {
	return entities.Request{
		ID:               it.ID,
		LeadID:           it.LeadID,
		ProjectID:        it.ProjectID,
		ClientName:       it.ClientName,
		ProjectName:      it.ProjectName,
		Description:      it.Description,
		ScopeDescription: it.ScopeDescription,
		Status:           entities.RequestStatus(it.Status),
		CreatedBy:        it.CreatedBy,
		ProjectOverview:  it.ProjectOverview,
		EstimateID:       it.EstimateID,
		RejectionReason:  it.RejectionReason,
		CreatedAt:        parseStamp(it.CreatedAt),
		UpdatedAt:        parseStamp(it.UpdatedAt),
	}
}
