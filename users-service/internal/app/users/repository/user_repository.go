package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"umsshop/pkg/dynamo"
	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"
	"umsshop/users-service/internal/app/users/entity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const serviceName = "users-service"

// markReadBatch сколько элементов noti помечается одним UpdateItem
const markReadBatch = 100

type userRepository struct {
	client        dynamo.DBClient
	table         string
	approvalIndex string
}

// NewUserRepository создает репозиторий пользователей поверх DynamoDB
func NewUserRepository(client dynamo.DBClient, table, approvalIndex string) UserRepository {
	return &userRepository{client: client, table: table, approvalIndex: approvalIndex}
}

func (r *userRepository) GetBySeq(ctx context.Context, seq int64) (*entity.User, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpGet, r.table)
	defer timer.ObserveDuration()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       dynamo.NumberKey("seq", seq),
	})
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrUserNotFound
	}

	var user entity.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// ListByApproval запрос по индексу approvalStatus, пока индекс строится используется Scan
func (r *userRepository) ListByApproval(ctx context.Context, status string) ([]entity.User, error) {
	raw, err := r.queryApproval(ctx, status)
	if dynamo.IsIndexUnavailable(err) {
		logger.Warn().
			Str("index", r.approvalIndex).
			Msg("Approval index unavailable, falling back to scan")
		raw, err = r.scanApproval(ctx, status)
	}
	if err != nil {
		return nil, err
	}

	var users []entity.User
	if err := attributevalue.UnmarshalListOfMaps(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Seq < users[j].Seq })
	return users, nil
}

func (r *userRepository) queryApproval(ctx context.Context, status string) ([]map[string]types.AttributeValue, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpQuery, r.table)
	defer timer.ObserveDuration()

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("approvalStatus").Equal(expression.Value(status))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	raw, err := dynamo.QueryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.approvalIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if dynamo.IsIndexUnavailable(err) {
			return nil, err
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to query users by approval: %w", err)
	}
	return raw, nil
}

func (r *userRepository) scanApproval(ctx context.Context, status string) ([]map[string]types.AttributeValue, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpScan, r.table)
	defer timer.ObserveDuration()

	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("approvalStatus").Equal(expression.Value(status))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	raw, err := dynamo.ScanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		timer.Fail()
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return raw, nil
}

func (r *userRepository) UpdateApproval(ctx context.Context, seq int64, status string) (*entity.User, error) {
	update := expression.Set(expression.Name("approvalStatus"), expression.Value(status))
	return r.updateExisting(ctx, seq, update, nil)
}

// UpdateSettings SET notifications.<category> по каждой переданной категории.
// Остальные ключи карты не трогаются.
func (r *userRepository) UpdateSettings(ctx context.Context, seq int64, settings map[string]bool) (*entity.User, error) {
	// Вложенный SET требует существующей карты
	ensure := expression.Set(
		expression.Name("notifications"),
		expression.IfNotExists(expression.Name("notifications"), expression.Value(map[string]bool{})),
	)
	user, err := r.updateExisting(ctx, seq, ensure, nil)
	if err != nil || len(settings) == 0 {
		return user, err
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var update expression.UpdateBuilder
	for i, k := range keys {
		name := expression.Name("notifications." + k)
		if i == 0 {
			update = expression.Set(name, expression.Value(settings[k]))
			continue
		}
		update = update.Set(name, expression.Value(settings[k]))
	}

	return r.updateExisting(ctx, seq, update, nil)
}

func (r *userRepository) SetFCMToken(ctx context.Context, seq int64, token string) error {
	update := expression.Set(expression.Name("fcmToken"), expression.Value(token))
	_, err := r.updateExisting(ctx, seq, update, nil)
	return err
}

// AppendNotification SET noti = list_append(if_not_exists(noti, []), [n]).
// Настройка категории проверяется в том же запросе, поэтому выключение
// между чтением пользователя и записью не пропустит уведомление.
func (r *userRepository) AppendNotification(ctx context.Context, seq int64, n entity.Notification) error {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpUpdate, r.table)
	defer timer.ObserveDuration()

	setting := expression.Name("notifications." + n.Category)
	cond := expression.AttributeExists(expression.Name("seq")).And(
		expression.Or(
			expression.AttributeNotExists(setting),
			setting.Equal(expression.Value(true)),
		),
	)

	update := expression.Set(
		expression.Name("noti"),
		expression.ListAppend(
			expression.IfNotExists(expression.Name("noti"), expression.Value([]interface{}{})),
			expression.Value([]entity.Notification{n}),
		),
	)

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       dynamo.NumberKey("seq", seq),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return ErrNotificationDisabled
		}
		timer.Fail()
		return fmt.Errorf("failed to append notification: %w", err)
	}

	return nil
}

// MarkRead SET noti[i].read = true, только если элемент существует
func (r *userRepository) MarkRead(ctx context.Context, seq int64, index int) error {
	item := fmt.Sprintf("noti[%d]", index)
	update := expression.Set(expression.Name(item+".read"), expression.Value(true))
	cond := expression.AttributeExists(expression.Name(item))

	_, err := r.updateExisting(ctx, seq, update, &cond)
	if errors.Is(err, ErrUserNotFound) {
		// Условие общее для пользователя и элемента
		return ErrNotificationNotFound
	}
	return err
}

// MarkAllRead помечает первые count записей. Новые записи добавляются в конец,
// поэтому индексы 0..count-1 не сдвигаются.
func (r *userRepository) MarkAllRead(ctx context.Context, seq int64, count int) error {
	for start := 0; start < count; start += markReadBatch {
		end := start + markReadBatch
		if end > count {
			end = count
		}

		update := expression.Set(expression.Name(fmt.Sprintf("noti[%d].read", start)), expression.Value(true))
		for i := start + 1; i < end; i++ {
			update = update.Set(expression.Name(fmt.Sprintf("noti[%d].read", i)), expression.Value(true))
		}
		cond := expression.Size(expression.Name("noti")).GreaterThanEqual(expression.Value(end))

		if _, err := r.updateExisting(ctx, seq, update, &cond); err != nil {
			return err
		}
	}
	return nil
}

// updateExisting UpdateItem с условием attribute_exists(seq) и необязательным доп. условием
func (r *userRepository) updateExisting(ctx context.Context, seq int64, update expression.UpdateBuilder, extra *expression.ConditionBuilder) (*entity.User, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpUpdate, r.table)
	defer timer.ObserveDuration()

	cond := expression.AttributeExists(expression.Name("seq"))
	if extra != nil {
		cond = cond.And(*extra)
	}

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       dynamo.NumberKey("seq", seq),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if dynamo.IsConditionFailed(err) {
			return nil, ErrUserNotFound
		}
		timer.Fail()
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var user entity.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}
