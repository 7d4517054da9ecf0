package dynamo

import (
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrIndexUnavailable вторичный индекс отсутствует или еще строится (backfilling).
// Handlers отвечают 503, клиент может повторить запрос позже.
var ErrIndexUnavailable = errors.New("secondary index is not available yet")

// IsConditionFailed проверяет срабатывание ConditionExpression
func IsConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// IsIndexUnavailable распознает ответы DynamoDB о недоступном GSI:
//   - ValidationException "The table does not have the specified index"
//   - ValidationException "Cannot read from backfilling global secondary index"
//   - ResourceNotFoundException с упоминанием индекса
func IsIndexUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return strings.Contains(strings.ToLower(rnf.ErrorMessage()), "index")
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" {
		msg := strings.ToLower(apiErr.ErrorMessage())
		return strings.Contains(msg, "backfilling") || strings.Contains(msg, "specified index")
	}

	return false
}
