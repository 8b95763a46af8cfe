package repository

import (
	"context"
	"fmt"

	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase/interfaces"
	"dealflow/pkg"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultProjectsTableName = "projects"

type changelogEntryItem struct {
	Action string `dynamodbav:"action"`
	User   string `dynamodbav:"user"`
	Date   string `dynamodbav:"date"`
}

type invoiceItem struct {
	ID                string  `dynamodbav:"id"`
	Amount            float64 `dynamodbav:"amount"`
	Description       string  `dynamodbav:"description,omitempty"`
	Status            string  `dynamodbav:"status"`
	ProviderPaymentID string  `dynamodbav:"provider_payment_id,omitempty"`
	CreatedAt         string  `dynamodbav:"created_at"`
}

type projectItem struct {
	ID            string               `dynamodbav:"id"`
	Name          string               `dynamodbav:"name"`
	RequestID     string               `dynamodbav:"request_id,omitempty"`
	EstimateID    string               `dynamodbav:"estimate_id,omitempty"`
	Status        string               `dynamodbav:"status"`
	CreatedBy     string               `dynamodbav:"created_by"`
	Credentials   string               `dynamodbav:"credentials,omitempty"`
	Documentation string               `dynamodbav:"documentation,omitempty"`
	Changelog     []changelogEntryItem `dynamodbav:"changelog"`
	Invoices      []invoiceItem        `dynamodbav:"invoices"`
	CreatedAt     string               `dynamodbav:"created_at"`
	UpdatedAt     string               `dynamodbav:"updated_at"`
}

// ProjectDynamoRepository persists Project entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Changelog and invoices are append-only lists on the item; both appends use
// list_append so no read-modify-write cycle can drop entries.
type ProjectDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IProjectRepository = (*ProjectDynamoRepository)(nil)

func NewProjectDynamoRepository(ddb *dynamodb.Client) *ProjectDynamoRepository {
	return &ProjectDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PROJECTS_TABLE", defaultProjectsTableName),
	}
}

func (r *ProjectDynamoRepository) Create(ctx context.Context, p entities.Project) (entities.Project, error) {
	av, err := attributevalue.MarshalMap(toProjectItem(p))
	if err != nil {
		return entities.Project{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.Project{}, err
	}
	return p, nil
}

func (r *ProjectDynamoRepository) GetByID(ctx context.Context, id string) (entities.Project, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Project{}, err
	}
	if len(out.Item) == 0 {
		return entities.Project{}, nil
	}

	var it projectItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Project{}, err
	}
	return fromProjectItem(it), nil
}

func (r *ProjectDynamoRepository) List(ctx context.Context) ([]entities.Project, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	var items []projectItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	projects := make([]entities.Project, 0, len(items))
	for _, it := range items {
		projects = append(projects, fromProjectItem(it))
	}
	return projects, nil
}

func (r *ProjectDynamoRepository) SaveTransition(ctx context.Context, id string, expected, next entities.ProjectStatus, entry entities.ChangelogEntry) (entities.Project, error) {
	entryAV, err := attributevalue.MarshalList([]changelogEntryItem{toChangelogEntryItem(entry)})
	if err != nil {
		return entities.Project{}, err
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :expected"),
		UpdateExpression:    aws.String("SET #status = :next, #updated_at = :updated_at, #changelog = list_append(if_not_exists(#changelog, :empty), :entry)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next":       &types.AttributeValueMemberS{Value: string(next)},
			":expected":   &types.AttributeValueMemberS{Value: string(expected)},
			":updated_at": &types.AttributeValueMemberS{Value: nowStamp()},
			":entry":      &types.AttributeValueMemberL{Value: entryAV},
			":empty":      &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
			"#changelog":  "changelog",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if conditionalFailed(err) {
			return entities.Project{}, r.classifyConditionFailure(ctx, id)
		}
		return entities.Project{}, err
	}

	var it projectItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Project{}, err
	}
	return fromProjectItem(it), nil
}

func (r *ProjectDynamoRepository) AppendInvoice(ctx context.Context, id string, inv entities.Invoice, entry entities.ChangelogEntry) (entities.Project, error) {
	invoiceAV, err := attributevalue.MarshalList([]invoiceItem{toInvoiceItem(inv)})
	if err != nil {
		return entities.Project{}, err
	}
	entryAV, err := attributevalue.MarshalList([]changelogEntryItem{toChangelogEntryItem(entry)})
	if err != nil {
		return entities.Project{}, err
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #updated_at = :updated_at, #invoices = list_append(if_not_exists(#invoices, :empty), :invoice), #changelog = list_append(if_not_exists(#changelog, :empty), :entry)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":updated_at": &types.AttributeValueMemberS{Value: nowStamp()},
			":invoice":    &types.AttributeValueMemberL{Value: invoiceAV},
			":entry":      &types.AttributeValueMemberL{Value: entryAV},
			":empty":      &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#updated_at": "updated_at",
			"#invoices":   "invoices",
			"#changelog":  "changelog",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if conditionalFailed(err) {
			return entities.Project{}, fmt.Errorf("%w: project %s", pkg.ErrNotFound, id)
		}
		return entities.Project{}, err
	}

	var it projectItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Project{}, err
	}
	return fromProjectItem(it), nil
}

func (r *ProjectDynamoRepository) classifyConditionFailure(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.ID == "" {
		return fmt.Errorf("%w: project %s", pkg.ErrNotFound, id)
	}
	return fmt.Errorf("%w: project %s status changed concurrently", pkg.ErrConflict, id)
}

func toProjectItem(p entities.Project) projectItem {
	changelog := make([]changelogEntryItem, 0, len(p.Changelog))
	for _, e := range p.Changelog {
		changelog = append(changelog, toChangelogEntryItem(e))
	}
	invoices := make([]invoiceItem, 0, len(p.Invoices))
	for _, inv := range p.Invoices {
		invoices = append(invoices, toInvoiceItem(inv))
	}
	return projectItem{
		ID:            p.ID,
		Name:          p.Name,
		RequestID:     p.RequestID,
		EstimateID:    p.EstimateID,
		Status:        string(p.Status),
		CreatedBy:     p.CreatedBy,
		Credentials:   p.Credentials,
		Documentation: p.Documentation,
		Changelog:     changelog,
		Invoices:      invoices,
		CreatedAt:     p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:     p.UpdatedAt.UTC().Format(timeFormat),
	}
}

func fromProjectItem(it projectItem) entities.Project {
	changelog := make([]entities.ChangelogEntry, 0, len(it.Changelog))
	for _, e := range it.Changelog {
		changelog = append(changelog, entities.ChangelogEntry{
			Action: e.Action,
			User:   e.User,
			Date:   parseStamp(e.Date),
		})
	}
	invoices := make([]entities.Invoice, 0, len(it.Invoices))
	for _, inv := range it.Invoices {
		invoices = append(invoices, entities.Invoice{
			ID:                inv.ID,
			Amount:            inv.Amount,
			Description:       inv.Description,
			Status:            entities.InvoiceStatus(inv.Status),
			ProviderPaymentID: inv.ProviderPaymentID,
			CreatedAt:         parseStamp(inv.CreatedAt),
		})
	}
	return entities.Project{
		ID:            it.ID,
		Name:          it.Name,
		RequestID:     it.RequestID,
		EstimateID:    it.EstimateID,
		Status:        entities.ProjectStatus(it.Status),
		CreatedBy:     it.CreatedBy,
		Credentials:   it.Credentials,
		Documentation: it.Documentation,
		Changelog:     changelog,
		Invoices:      invoices,
		CreatedAt:     parseStamp(it.CreatedAt),
		UpdatedAt:     parseStamp(it.UpdatedAt),
	}
}

func toChangelogEntryItem(e entities.ChangelogEntry) changelogEntryItem {
	return changelogEntryItem{Action: e.Action, User: e.User, Date: e.Date.UTC().Format(timeFormat)}
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	return invoiceItem{
		ID:                inv.ID,
		Amount:            inv.Amount,
		Description:       inv.Description,
		Status:            string(inv.Status),
		ProviderPaymentID: inv.ProviderPaymentID,
		CreatedAt:         inv.CreatedAt.UTC().Format(timeFormat),
	}
}
