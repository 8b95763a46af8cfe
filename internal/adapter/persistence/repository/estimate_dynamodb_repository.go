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

const (
	defaultEstimatesTableName = "estimates"
	shareUUIDIndexName        = "share_uuid-index"
)

type hourRangeItem struct {
	Min float64 `dynamodbav:"min"`
	Max float64 `dynamodbav:"max"`
}

type taskItem struct {
	ID          string                   `dynamodbav:"id"`
	Name        string                   `dynamodbav:"name"`
	Description string                   `dynamodbav:"description,omitempty"`
	Estimates   map[string]hourRangeItem `dynamodbav:"estimates"`
	IncludeQA   bool                     `dynamodbav:"include_qa"`
	IncludePM   bool                     `dynamodbav:"include_pm"`
}

type sectionItem struct {
	ID    string     `dynamodbav:"id"`
	Title string     `dynamodbav:"title"`
	Tasks []taskItem `dynamodbav:"tasks"`
}

type roleItem struct {
	ID          string  `dynamodbav:"id"`
	Label       string  `dynamodbav:"label"`
	HourlyRate  float64 `dynamodbav:"hourly_rate"`
	HoursPerDay float64 `dynamodbav:"hours_per_day"`
}

type estimateItem struct {
	ID              string        `dynamodbav:"id"`
	Name            string        `dynamodbav:"name"`
	ClientName      string        `dynamodbav:"client_name"`
	Sections        []sectionItem `dynamodbav:"sections"`
	Roles           []roleItem    `dynamodbav:"roles"`
	QAPercent       float64       `dynamodbav:"qa_percent"`
	PMPercent       float64       `dynamodbav:"pm_percent"`
	QARate          float64       `dynamodbav:"qa_rate"`
	PMRate          float64       `dynamodbav:"pm_rate"`
	DiscountPercent float64       `dynamodbav:"discount_percent"`
	OwnerID         string        `dynamodbav:"owner_id"`
	ShareUUID       string        `dynamodbav:"share_uuid,omitempty"`
	CreatedAt       string        `dynamodbav:"created_at"`
	UpdatedAt       string        `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists Estimate entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI1 (share_uuid-index): share_uuid
//
// The whole section tree lives on one item: estimates are edited and read as
// a unit, and totals are recomputed from the tree on every read rather than
// stored.
type EstimateDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb *dynamodb.Client) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ESTIMATES_TABLE", defaultEstimatesTableName),
	}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	av, err := attributevalue.MarshalMap(toEstimateItem(e))
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Estimate{}, nil
	}

	var it estimateItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

func (r *EstimateDynamoRepository) GetByShareUUID(ctx context.Context, shareUUID string) (entities.Estimate, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(shareUUIDIndexName),
		KeyConditionExpression: aws.String("#share_uuid = :share_uuid"),
		ExpressionAttributeNames: map[string]string{
			"#share_uuid": "share_uuid",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":share_uuid": &types.AttributeValueMemberS{Value: shareUUID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Items) == 0 {
		return entities.Estimate{}, nil
	}

	var it estimateItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

// Update replaces the full item. The estimate tree is edited as a document;
// a PutItem keeps the write atomic without a per-field expression build.
func (r *EstimateDynamoRepository) Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	av, err := attributevalue.MarshalMap(toEstimateItem(e))
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		// The item was deleted between the caller's read and this write.
		if conditionalFailed(err) {
			return entities.Estimate{}, fmt.Errorf("%w: estimate %s", pkg.ErrNotFound, e.ID)
		}
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return err
}

func toEstimateItem(e entities.Estimate) estimateItem {
	sections := make([]sectionItem, 0, len(e.Sections))
	for _, s := range e.Sections {
		tasks := make([]taskItem, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			estimates := make(map[string]hourRangeItem, len(t.Estimates))
			for roleID, hours := range t.Estimates {
				estimates[roleID] = hourRangeItem{Min: hours.Min, Max: hours.Max}
			}
			tasks = append(tasks, taskItem{
				ID:          t.ID,
				Name:        t.Name,
				Description: t.Description,
				Estimates:   estimates,
				IncludeQA:   t.IncludeQA,
				IncludePM:   t.IncludePM,
			})
		}
		sections = append(sections, sectionItem{ID: s.ID, Title: s.Title, Tasks: tasks})
	}

	roles := make([]roleItem, 0, len(e.Roles))
	for _, role := range e.Roles {
		roles = append(roles, roleItem{
			ID:          role.ID,
			Label:       role.Label,
			HourlyRate:  role.HourlyRate,
			HoursPerDay: role.HoursPerDay,
		})
	}

	return estimateItem{
		ID:              e.ID,
		Name:            e.Name,
		ClientName:      e.ClientName,
		Sections:        sections,
		Roles:           roles,
		QAPercent:       e.QAPercent,
		PMPercent:       e.PMPercent,
		QARate:          e.QARate,
		PMRate:          e.PMRate,
		DiscountPercent: e.DiscountPercent,
		OwnerID:         e.OwnerID,
		ShareUUID:       e.ShareUUID,
		CreatedAt:       e.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:       e.UpdatedAt.UTC().Format(timeFormat),
	}
}

func fromEstimateItem(it estimateItem) entities.Estimate {
	sections := make([]entities.Section, 0, len(it.Sections))
	for _, s := range it.Sections {
		tasks := make([]entities.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			estimates := make(map[string]entities.HourRange, len(t.Estimates))
			for roleID, hours := range t.Estimates {
				estimates[roleID] = entities.HourRange{Min: hours.Min, Max: hours.Max}
			}
			tasks = append(tasks, entities.Task{
				ID:          t.ID,
				Name:        t.Name,
				Description: t.Description,
				Estimates:   estimates,
				IncludeQA:   t.IncludeQA,
				IncludePM:   t.IncludePM,
			})
		}
		sections = append(sections, entities.Section{ID: s.ID, Title: s.Title, Tasks: tasks})
	}

	roles := make([]entities.Role, 0, len(it.Roles))
	for _, role := range it.Roles {
		roles = append(roles, entities.Role{
			ID:          role.ID,
			Label:       role.Label,
			HourlyRate:  role.HourlyRate,
			HoursPerDay: role.HoursPerDay,
		})
	}

	return entities.Estimate{
		ID:              it.ID,
		Name:            it.Name,
		ClientName:      it.ClientName,
		Sections:        sections,
		Roles:           roles,
		QAPercent:       it.QAPercent,
		PMPercent:       it.PMPercent,
		QARate:          it.QARate,
		PMRate:          it.PMRate,
		DiscountPercent: it.DiscountPercent,
		OwnerID:         it.OwnerID,
		ShareUUID:       it.ShareUUID,
		CreatedAt:       parseStamp(it.CreatedAt),
		UpdatedAt:       parseStamp(it.UpdatedAt),
	}
}
