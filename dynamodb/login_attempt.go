package dynamodb

import (
	"context"
	"fmt"
	"moviecatalog/auth"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	DefaultLoginAttemptTable = "login_attempts"
	loginAttemptKey          = "email"
)

type loginAttemptItem struct {
	Email       string     `dynamodbav:"email"`
	FailedCount int        `dynamodbav:"failed_count"`
	JailedUntil *time.Time `dynamodbav:"jailed_until,omitempty"`
}

// LoginAttemptRepository implements auth.LoginAttemptRepository on a
// DynamoDB table keyed by email.
type LoginAttemptRepository struct {
	client *dynamodb.Client
	table  string
}

func NewLoginAttemptRepository(client *dynamodb.Client, table string) *LoginAttemptRepository {
	if table == "" {
		table = DefaultLoginAttemptTable
	}
	return &LoginAttemptRepository{
		client: client,
		table:  table,
	}
}

func (r *LoginAttemptRepository) EnsureTable(ctx context.Context) error {
	return EnsureTable(ctx, r.client, r.table, loginAttemptKey)
}

func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (auth.LoginAttempt, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            r.key(email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return auth.LoginAttempt{}, fmt.Errorf("dynamodb: get login attempt: %w", err)
	}
	if len(out.Item) == 0 {
		return auth.LoginAttempt{}, nil
	}

	var item loginAttemptItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return auth.LoginAttempt{}, fmt.Errorf("dynamodb: decode login attempt: %w", err)
	}

	attempt := auth.LoginAttempt{FailedCount: item.FailedCount}
	if item.JailedUntil != nil {
		attempt.JailedUntil = item.JailedUntil.UTC()
	}
	return attempt, nil
}

func (r *LoginAttemptRepository) Save(ctx context.Context, email string, attempt auth.LoginAttempt) error {
	item := loginAttemptItem{
		Email:       normalizeEmail(email),
		FailedCount: attempt.FailedCount,
	}
	if !attempt.JailedUntil.IsZero() {
		jailed := attempt.JailedUntil.UTC()
		item.JailedUntil = &jailed
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: encode login attempt: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put login attempt: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(email),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete login attempt: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) key(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		loginAttemptKey: &types.AttributeValueMemberS{Value: normalizeEmail(email)},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
