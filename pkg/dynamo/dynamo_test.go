package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"umsshop/pkg/dynamo/mocks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIsConditionFailed(t *testing.T) {
	wrapped := fmt.Errorf("operation error: %w", &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")})

	assert.True(t, IsConditionFailed(wrapped))
	assert.False(t, IsConditionFailed(errors.New("timeout")))
}

func TestIsIndexUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "backfilling index",
			err:  &smithy.GenericAPIError{Code: "ValidationException", Message: "Cannot read from backfilling global secondary index: name-index"},
			want: true,
		},
		{
			name: "missing index",
			err:  fmt.Errorf("query: %w", &smithy.GenericAPIError{Code: "ValidationException", Message: "The table does not have the specified index: mainCategoryId-index"}),
			want: true,
		},
		{
			name: "resource not found for index",
			err:  &types.ResourceNotFoundException{Message: aws.String("Requested resource not found: Index: name-index not found")},
			want: true,
		},
		{
			name: "missing table",
			err:  &types.ResourceNotFoundException{Message: aws.String("Requested resource not found: Table: Orders not found")},
			want: false,
		},
		{
			name: "other validation error",
			err:  &smithy.GenericAPIError{Code: "ValidationException", Message: "One or more parameter values were invalid"},
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIndexUnavailable(tt.err))
		})
	}
}

func TestScanAll_FollowsPages(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := new(mocks.MockDBClient)

	page1 := &dynamodb.ScanOutput{
		Items:            []map[string]types.AttributeValue{StringKey("orderId", "ORD-1")},
		LastEvaluatedKey: StringKey("orderId", "ORD-1"),
	}
	page2 := &dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{StringKey("orderId", "ORD-2")},
	}
	client.On("Scan", ctx, mock.AnythingOfType("*dynamodb.ScanInput")).Return(page1, nil).Once()
	client.On("Scan", ctx, mock.AnythingOfType("*dynamodb.ScanInput")).Return(page2, nil).Once()

	// Act
	items, err := ScanAll(ctx, client, &dynamodb.ScanInput{TableName: aws.String("Orders")})

	// Assert
	require.NoError(t, err)
	assert.Len(t, items, 2)
	client.AssertNumberOfCalls(t, "Scan", 2)
}

func TestBatchDelete_ChunksAndRetriesUnprocessed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := new(mocks.MockDBClient)

	keys := make([]map[string]types.AttributeValue, 0, 30)
	for i := 0; i < 30; i++ {
		keys = append(keys, StringKey("subCategory2Id", fmt.Sprintf("s1-sub2-%02d", i)))
	}

	unprocessed := map[string][]types.WriteRequest{
		"SubCategory2": {{DeleteRequest: &types.DeleteRequest{Key: keys[0]}}},
	}

	client.On("BatchWriteItem", ctx, mock.MatchedBy(func(in *dynamodb.BatchWriteItemInput) bool {
		return len(in.RequestItems["SubCategory2"]) == 25
	})).Return(&dynamodb.BatchWriteItemOutput{UnprocessedItems: unprocessed}, nil).Once()
	client.On("BatchWriteItem", ctx, mock.MatchedBy(func(in *dynamodb.BatchWriteItemInput) bool {
		return len(in.RequestItems["SubCategory2"]) == 1
	})).Return(&dynamodb.BatchWriteItemOutput{}, nil).Once()
	client.On("BatchWriteItem", ctx, mock.MatchedBy(func(in *dynamodb.BatchWriteItemInput) bool {
		return len(in.RequestItems["SubCategory2"]) == 5
	})).Return(&dynamodb.BatchWriteItemOutput{}, nil).Once()

	// Act
	err := BatchDelete(ctx, client, "SubCategory2", keys)

	// Assert
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "BatchWriteItem", 3)
}

func TestBatchDelete_Error(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := new(mocks.MockDBClient)
	client.On("BatchWriteItem", ctx, mock.Anything).Return(nil, errors.New("throttled"))

	// Act
	err := BatchDelete(ctx, client, "SubCategory1", []map[string]types.AttributeValue{StringKey("subCategory1Id", "x")})

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to batch delete")
}
