package repository

import (
	"context"
	"fmt"

	"umsshop/pkg/dynamo"
	"umsshop/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type userDirectory struct {
	client dynamo.DBClient
	table  string
}

// NewUserDirectory читает из таблицы Users только fcmToken
func NewUserDirectory(client dynamo.DBClient, table string) UserDirectory {
	return &userDirectory{client: client, table: table}
}

// PushToken пустая строка, если пользователь не регистрировал устройство
func (d *userDirectory) PushToken(ctx context.Context, seq int64) (string, error) {
	timer := metrics.NewDynamoTimer(serviceName, metrics.DynamoOpGet, d.table)
	defer timer.ObserveDuration()

	proj, err := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("seq"), expression.Name("fcmToken"))).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build projection: %w", err)
	}

	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(d.table),
		Key:                      dynamo.NumberKey("seq", seq),
		ProjectionExpression:     proj.Projection(),
		ExpressionAttributeNames: proj.Names(),
	})
	if err != nil {
		timer.Fail()
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if len(out.Item) == 0 {
		return "", ErrUserNotFound
	}

	var user struct {
		FCMToken string `dynamodbav:"fcmToken"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return "", fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return user.FCMToken, nil
}
