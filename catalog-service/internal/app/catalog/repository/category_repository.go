package repository

import (
	"context"
	"fmt"
	"time"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/pkg/dynamo"
	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const serviceName = "catalog-service"

// Tables имена таблиц и индексов иерархии
type Tables struct {
	Main            string
	Sub1            string
	Sub2            string
	NameIndex       string
	MainParentIndex string
	Sub1ParentIndex string
}

// levelTable как уровень лежит в DynamoDB
type levelTable struct {
	table       string
	keyAttr     string
	parentAttr  string // пусто для main
	parentIndex string
}

// categoryItem общий формат документа для трех таблиц.
// Заполняются только атрибуты, относящиеся к уровню.
type categoryItem struct {
	CategoryID     string `dynamodbav:"categoryId,omitempty"`
	SubCategory1ID string `dynamodbav:"subCategory1Id,omitempty"`
	SubCategory2ID string `dynamodbav:"subCategory2Id,omitempty"`
	MainCategoryID string `dynamodbav:"mainCategoryId,omitempty"`
	Name           string `dynamodbav:"name"`
	Code           string `dynamodbav:"code,omitempty"`
	Status         string `dynamodbav:"status"`
	Order          int    `dynamodbav:"order"`
	ImageURL       string `dynamodbav:"imageUrl,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt,omitempty"`
	UpdatedAt      string `dynamodbav:"updatedAt,omitempty"`
}

type categoryRepository struct {
	client dynamo.DBClient
	tables Tables
}

// NewCategoryRepository создает репозиторий категорий поверх DynamoDB
func NewCategoryRepository(client dynamo.DBClient, tables Tables) CategoryRepository {
	return &categoryRepository{client: client, tables: tables}
}

func (r *categoryRepository) tableFor(level entity.Level) levelTable {
	switch level {
	case entity.LevelSub1:
		return levelTable{table: r.tables.Sub1, keyAttr: "subCategory1Id", parentAttr: "mainCategoryId", parentIndex: r.tables.MainParentIndex}
	case entity.LevelSub2:
		return levelTable{table: r.tables.Sub2, keyAttr: "subCategory2Id", parentAttr: "subCategory1Id", parentIndex: r.tables.Sub1ParentIndex}
	default:
		return levelTable{table: r.tables.Main, keyAttr: "categoryId"}
	}
}

func toItem(c *entity.Category) categoryItem {
	item := categoryItem{
		Name:     c.Name,
		Code:     c.Code,
		Status:   string(c.Status),
		Order:    c.Order,
		ImageURL: c.ImageURL,
	}
	if !c.CreatedAt.IsZero() {
		item.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
	}

	switch c.Level {
	case entity.LevelSub1:
		item.SubCategory1ID = c.ID
		item.MainCategoryID = c.ParentID
	case entity.LevelSub2:
		item.SubCategory2ID = c.ID
		item.SubCategory1ID = c.ParentID
	default:
		item.CategoryID = c.ID
	}
	return item
}

func fromItem(level entity.Level, item categoryItem) entity.Category {
	c := entity.Category{
		Level:    level,
		Name:     item.Name,
		Code:     item.Code,
		Status:   entity.CategoryStatus(item.Status),
		Order:    item.Order,
		ImageURL: item.ImageURL,
	}
	if t, err := time.Parse(time.RFC3339, item.CreatedAt); err == nil {
		c.CreatedAt = t
	}

	switch level {
	case entity.LevelSub1:
		c.ID = item.SubCategory1ID
		c.ParentID = item.MainCategoryID
	case entity.LevelSub2:
		c.ID = item.SubCategory2ID
		c.ParentID = item.SubCategory1ID
	default:
		c.ID = item.CategoryID
	}
	return c
}

func decodeItems(level entity.Level, raw []map[string]types.AttributeValue) ([]entity.Category, error) {
	var items []categoryItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	categories := make([]entity.Category, 0, len(items))
	for _, item := range items {
		categories = append(categories, fromItem(level, item))
	}
	return categories, nil
}

// Create вставляет узел, если ключ еще не занят
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	lt := r.tableFor(category.Level)
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpPut, lt.table)
	defer timer.ObserveDuration()

	av, err := attributevalue.MarshalMap(toItem(category))
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(lt.keyAttr))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(lt.table),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return ErrCategoryAlreadyExists
		}
		timer.Fail()
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByRef читает узел из таблицы его уровня
func (r *categoryRepository) GetByRef(ctx context.Context, ref entity.CategoryRef) (*entity.Category, error) {
	lt := r.tableFor(ref.Level)
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpGet, lt.table)
	defer timer.ObserveDuration()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(lt.table),
		Key:       dynamo.StringKey(lt.keyAttr, ref.ID),
	})
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrCategoryNotFound
	}

	var item categoryItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category: %w", err)
	}

	category := fromItem(ref.Level, item)
	return &category, nil
}

// List читает весь уровень через Scan, годится для небольших справочников
func (r *categoryRepository) List(ctx context.Context, level entity.Level) ([]entity.Category, error) {
	lt := r.tableFor(level)
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpScan, lt.table)
	defer timer.ObserveDuration()

	raw, err := dynamo.ScanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(lt.table)})
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}

	return decodeItems(level, raw)
}

// ListByParent дочерние узлы через индекс по родителю
func (r *categoryRepository) ListByParent(ctx context.Context, level entity.Level, parentID string) ([]entity.Category, error) {
	lt := r.tableFor(level)
	if lt.parentAttr == "" {
		return nil, fmt.Errorf("level %s has no parent", level)
	}

	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpQuery, lt.table)
	defer timer.ObserveDuration()

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(lt.parentAttr).Equal(expression.Value(parentID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	raw, err := dynamo.QueryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(lt.table),
		IndexName:                 aws.String(lt.parentIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if dynamo.IsIndexUnavailable(err) {
			return nil, fmt.Errorf("%s on %s: %w", lt.parentIndex, lt.table, dynamo.ErrIndexUnavailable)
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to query categories by parent: %w", err)
	}

	return decodeItems(level, raw)
}

// FindByName ищет узлы уровня с точно таким именем.
// Пока индекс по name недоступен, используется Scan с фильтром.
func (r *categoryRepository) FindByName(ctx context.Context, level entity.Level, name string) ([]entity.Category, error) {
	lt := r.tableFor(level)

	keyExpr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("name").Equal(expression.Value(name))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	queryTimer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpQuery, lt.table)
	raw, err := dynamo.QueryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(lt.table),
		IndexName:                 aws.String(r.tables.NameIndex),
		KeyConditionExpression:    keyExpr.KeyCondition(),
		ExpressionAttributeNames:  keyExpr.Names(),
		ExpressionAttributeValues: keyExpr.Values(),
	})
	queryTimer.ObserveDuration()
	if err == nil {
		return decodeItems(level, raw)
	}
	if !dynamo.IsIndexUnavailable(err) {
		queryTimer.Fail()
		return nil, fmt.Errorf("failed to query categories by name: %w", err)
	}

	logger.Warn().
		Err(err).
		Str("table", lt.table).
		Str("index", r.tables.NameIndex).
		Msg("Name index unavailable, falling back to scan")

	filterExpr, err := expression.NewBuilder().
		WithFilter(expression.Name("name").Equal(expression.Value(name))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	scanTimer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpScan, lt.table)
	defer scanTimer.ObserveDuration()

	raw, err = dynamo.ScanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(lt.table),
		FilterExpression:          filterExpr.Filter(),
		ExpressionAttributeNames:  filterExpr.Names(),
		ExpressionAttributeValues: filterExpr.Values(),
	})
	if err != nil {
		scanTimer.Fail()
		return nil, fmt.Errorf("failed to scan categories by name: %w", err)
	}

	return decodeItems(level, raw)
}

// Update применяет SET только к переданным полям.
// Повтор того же патча дает то же состояние.
func (r *categoryRepository) Update(ctx context.Context, ref entity.CategoryRef, patch entity.CategoryPatch) (*entity.Category, error) {
	lt := r.tableFor(ref.Level)
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpUpdate, lt.table)
	defer timer.ObserveDuration()

	update := expression.Set(expression.Name("updatedAt"), expression.Value(time.Now().UTC().Format(time.RFC3339)))
	if patch.Name != nil {
		update = update.Set(expression.Name("name"), expression.Value(*patch.Name))
	}
	if patch.Code != nil {
		update = update.Set(expression.Name("code"), expression.Value(*patch.Code))
	}
	if patch.Status != nil {
		update = update.Set(expression.Name("status"), expression.Value(string(*patch.Status)))
	}
	if patch.Order != nil {
		update = update.Set(expression.Name("order"), expression.Value(*patch.Order))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(lt.keyAttr))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(lt.table),
		Key:                       dynamo.StringKey(lt.keyAttr, ref.ID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return nil, ErrCategoryNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	var item categoryItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category: %w", err)
	}

	category := fromItem(ref.Level, item)
	return &category, nil
}

// Delete удаляет один узел, дети не затрагиваются
func (r *categoryRepository) Delete(ctx context.Context, ref entity.CategoryRef) error {
	lt := r.tableFor(ref.Level)
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpDelete, lt.table)
	defer timer.ObserveDuration()

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(lt.keyAttr))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(lt.table),
		Key:                      dynamo.StringKey(lt.keyAttr, ref.ID),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return ErrCategoryNotFound
		}
		timer.Fail()
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// DeleteMany удаляет узлы одного уровня пачками (каскадное удаление)
func (r *categoryRepository) DeleteMany(ctx context.Context, level entity.Level, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	lt := r.tableFor(level)
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpBatchWrite, lt.table)
	defer timer.ObserveDuration()

	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, dynamo.StringKey(lt.keyAttr, id))
	}

	if err := dynamo.BatchDelete(ctx, r.client, lt.table, keys); err != nil {
		timer.Fail()
		return err
	}

	return nil
}
