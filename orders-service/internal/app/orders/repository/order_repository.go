package repository

import (
	"context"
	"fmt"
	"sort"

	"umsshop/orders-service/internal/app/orders/entity"
	"umsshop/pkg/dynamo"
	"umsshop/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const serviceName = "orders-service"

type orderRepository struct {
	client     dynamo.DBClient
	table      string
	emailIndex string
}

// NewOrderRepository создает репозиторий заказов поверх DynamoDB
func NewOrderRepository(client dynamo.DBClient, table, emailIndex string) OrderRepository {
	return &orderRepository{client: client, table: table, emailIndex: emailIndex}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpPut, r.table)
	defer timer.ObserveDuration()

	av, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("orderId"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return ErrOrderExists
		}
		timer.Fail()
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpGet, r.table)
	defer timer.ObserveDuration()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       dynamo.StringKey("orderId", orderID),
	})
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrOrderNotFound
	}

	var order entity.Order
	if err := attributevalue.UnmarshalMap(out.Item, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}

// List все заказы для админки, новые первыми
func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpScan, r.table)
	defer timer.ObserveDuration()

	raw, err := dynamo.ScanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}

	return decodeOrders(raw)
}

// ListByEmail заказы покупателя через индекс userEmail
func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpQuery, r.table)
	defer timer.ObserveDuration()

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("userEmail").Equal(expression.Value(email))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	raw, err := dynamo.QueryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.emailIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if dynamo.IsIndexUnavailable(err) {
			return nil, fmt.Errorf("%s: %w", r.emailIndex, dynamo.ErrIndexUnavailable)
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to query orders by email: %w", err)
	}

	return decodeOrders(raw)
}

func decodeOrders(raw []map[string]types.AttributeValue) ([]entity.Order, error) {
	var orders []entity.Order
	if err := attributevalue.UnmarshalListOfMaps(raw, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	return orders, nil
}

// AppendStatus SET statusHistory = list_append(if_not_exists(statusHistory, []), [entry]), status = entry.NewStatus.
// Параллельные вызовы не теряют записи: порядок определяет DynamoDB.
func (r *orderRepository) AppendStatus(ctx context.Context, orderID string, entry entity.StatusEntry, extra ...FieldUpdate) (*entity.Order, error) {
	update := expression.
		Set(expression.Name("statusHistory"), appendToList("statusHistory", []entity.StatusEntry{entry})).
		Set(expression.Name("status"), expression.Value(entry.NewStatus))
	for _, f := range extra {
		update = update.Set(expression.Name(f.Path), expression.Value(f.Value))
	}

	return r.updateExisting(ctx, orderID, update)
}

// AppendMessage SET messages = list_append(if_not_exists(messages, []), [msg])
func (r *orderRepository) AppendMessage(ctx context.Context, orderID string, msg entity.Message) (*entity.Order, error) {
	update := expression.Set(expression.Name("messages"), appendToList("messages", []entity.Message{msg}))
	return r.updateExisting(ctx, orderID, update)
}

func appendToList(attr string, items interface{}) expression.SetValueBuilder {
	return expression.ListAppend(
		expression.IfNotExists(expression.Name(attr), expression.Value([]interface{}{})),
		expression.Value(items),
	)
}

// updateExisting UpdateItem с условием существования заказа, возвращает ALL_NEW
func (r *orderRepository) updateExisting(ctx context.Context, orderID string, update expression.UpdateBuilder) (*entity.Order, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpUpdate, r.table)
	defer timer.ObserveDuration()

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("orderId"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       dynamo.StringKey("orderId", orderID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return nil, ErrOrderNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	var order entity.Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID string) error {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpDelete, r.table)
	defer timer.ObserveDuration()

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("orderId"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      dynamo.StringKey("orderId", orderID),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return ErrOrderNotFound
		}
		timer.Fail()
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}
