// Package dynamo provides a DynamoDB-backed page source for lattice clients.
//
// Pages are served with genuine source-side pagination: each fetch issues a
// single Scan limited to the page size, and the continuation cursor is the
// encoded LastEvaluatedKey of that scan.
package dynamo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/engine"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 50

// Source implements engine.DataSource over a DynamoDB table scan.
type Source struct {
	client   *dynamodb.Client
	table    string
	pageSize int32
}

// New creates a Source reading rows from table. A pageSize <= 0 falls back
// to DefaultPageSize.
func New(client *dynamodb.Client, table string, pageSize int32) *Source {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Source{client: client, table: table, pageSize: pageSize}
}

// NewFromDefaultConfig creates a Source using the ambient AWS configuration
// (environment, shared config files, instance metadata).
func NewFromDefaultConfig(ctx context.Context, table string, pageSize int32) (*Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(dynamodb.NewFromConfig(cfg), table, pageSize), nil
}

// FetchPage implements engine.DataSource.
func (s *Source) FetchPage(ctx context.Context, cursor engine.Cursor) (engine.Page, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
		Limit:     aws.Int32(s.pageSize),
	}
	if cursor != "" {
		startKey, err := DecodeCursor(cursor)
		if err != nil {
			return engine.Page{}, err
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return engine.Page{}, fmt.Errorf("scan %s: %w", s.table, err)
	}

	page := engine.Page{Rows: make([]engine.Row, 0, len(out.Items))}
	for _, item := range out.Items {
		var r engine.Row
		if err := attributevalue.UnmarshalMap(item, &r); err != nil {
			return engine.Page{}, fmt.Errorf("unmarshal row: %w", err)
		}
		page.Rows = append(page.Rows, r)
	}

	if len(out.LastEvaluatedKey) > 0 {
		next, err := EncodeCursor(out.LastEvaluatedKey)
		if err != nil {
			return engine.Page{}, err
		}
		page.Next = next
	}
	return page, nil
}

// EncodeCursor packs a DynamoDB LastEvaluatedKey into an opaque cursor.
func EncodeCursor(key map[string]types.AttributeValue) (engine.Cursor, error) {
	plain := map[string]any{}
	if err := attributevalue.UnmarshalMap(key, &plain); err != nil {
		return "", fmt.Errorf("unmarshal evaluated key: %w", err)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return engine.Cursor(base64.RawURLEncoding.EncodeToString(raw)), nil
}

// DecodeCursor unpacks a cursor produced by EncodeCursor back into an
// ExclusiveStartKey. Cursors from any other origin yield engine.ErrBadCursor.
func DecodeCursor(cursor engine.Cursor) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(cursor))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrBadCursor, err)
	}
	plain := map[string]any{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrBadCursor, err)
	}
	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrBadCursor, err)
	}
	return key, nil
}
