package mongodb

import (
	"context"
	"errors"
	"fmt"
	"moviecatalog/auth"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const DefaultLoginAttemptCollection = "login_attempts"

type loginAttemptDocument struct {
	Email       string     `bson:"_id"`
	FailedCount int        `bson:"failedCount"`
	JailedUntil *time.Time `bson:"jailedUntil,omitempty"`
}

// LoginAttemptRepository implements [auth.LoginAttemptRepository].
type LoginAttemptRepository struct {
	coll *mongo.Collection
}

func NewLoginAttemptRepository(db *mongo.Database) *LoginAttemptRepository {
	return &LoginAttemptRepository{coll: db.Collection(DefaultLoginAttemptCollection)}
}

func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (auth.LoginAttempt, error) {
	var doc loginAttemptDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: normalizeEmail(email)}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.LoginAttempt{}, nil
		}
		return auth.LoginAttempt{}, fmt.Errorf("mongodb: get login attempt: %w", err)
	}

	attempt := auth.LoginAttempt{FailedCount: doc.FailedCount}
	if doc.JailedUntil != nil {
		attempt.JailedUntil = doc.JailedUntil.UTC()
	}
	return attempt, nil
}

func (r *LoginAttemptRepository) Save(ctx context.Context, email string, attempt auth.LoginAttempt) error {
	doc := loginAttemptDocument{
		Email:       normalizeEmail(email),
		FailedCount: attempt.FailedCount,
	}
	if !attempt.JailedUntil.IsZero() {
		t := attempt.JailedUntil.UTC()
		doc.JailedUntil = &t
	}

	_, err := r.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.Email}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongodb: save login attempt: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: normalizeEmail(email)}}); err != nil {
		return fmt.Errorf("mongodb: reset login attempt: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
