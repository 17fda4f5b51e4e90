// Package dynamo implements durable.Store on a DynamoDB table. One item per
// cache key: the partition key holds the cache key, a binary attribute holds
// the record bytes. The cache layer owns the record schema; this store never
// inspects the payload.
package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const attrKey = "CacheKey"

// DynamoDB limits BatchWriteItem to 25 requests per call.
const batchWriteLimit = 25

// API is the subset of the DynamoDB client the store uses. Narrowing the
// dependency keeps the store testable without a live table.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// item is the table row. UpdatedAt exists for operational inspection only;
// the cache's own timestamps live inside Value.
type item struct {
	CacheKey  string `dynamodbav:"CacheKey"`
	Value     []byte `dynamodbav:"Value"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// Store is a durable.Store backed by a single DynamoDB table.
type Store struct {
	client    API
	tableName string
	logger    *zap.Logger
}

func New(client API, tableName string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	av, err := attributevalue.MarshalMap(item{
		CacheKey:  key,
		Value:     value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put cache record: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       keyAttr(key),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache record: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cache record: %w", err)
	}
	return it.Value, true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       keyAttr(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete cache record: %w", err)
	}
	return nil
}

// Clear scans the table for keys and batch-deletes them. The scan projects
// only the partition key to keep payload transfer down.
func (s *Store) Clear(ctx context.Context) error {
	var startKey map[string]ddbtypes.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(s.tableName),
			ProjectionExpression: aws.String(attrKey),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return fmt.Errorf("failed to scan cache table: %w", err)
		}

		if err := s.batchDelete(ctx, out.Items); err != nil {
			return err
		}

		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *Store) batchDelete(ctx context.Context, items []map[string]ddbtypes.AttributeValue) error {
	for start := 0; start < len(items); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(items) {
			end = len(items)
		}

		requests := make([]ddbtypes.WriteRequest, 0, end-start)
		for _, it := range items[start:end] {
			requests = append(requests, ddbtypes.WriteRequest{
				DeleteRequest: &ddbtypes.DeleteRequest{Key: it},
			})
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]ddbtypes.WriteRequest{
				s.tableName: requests,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to batch delete cache records: %w", err)
		}
		if unprocessed := out.UnprocessedItems[s.tableName]; len(unprocessed) > 0 {
			s.logger.Warn("batch delete left unprocessed cache records",
				zap.Int("count", len(unprocessed)))
		}
	}
	return nil
}

func keyAttr(key string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		attrKey: &ddbtypes.AttributeValueMemberS{Value: key},
	}
}
