// Package bootstrap opens the stores selected by configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"moviecatalog/auth"
	"moviecatalog/dynamodb"
	"moviecatalog/mongodb"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/postgres"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Stores struct {
	Movies        movie.Repository
	LoginAttempts auth.LoginAttemptRepository

	closers []func(ctx context.Context) error
}

// OpenStores connects the movie store named by DB_DRIVER and the login
// attempt store named by LOGIN_ATTEMPT_STORE, reusing one connection when
// both live in the same database.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	s := new(Stores)
	var (
		mongoDB *mongo.Database
		gormDB  *gorm.DB
	)

	openMongo := func() (*mongo.Database, error) {
		if mongoDB != nil {
			return mongoDB, nil
		}
		db, err := mongodb.NewConnection(ctx, mongodb.Options{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(ctx context.Context) error {
			return mongodb.Close(ctx, db)
		})
		mongoDB = db
		return db, nil
	}

	openPostgres := func() (*gorm.DB, error) {
		if gormDB != nil {
			return gormDB, nil
		}
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     strconv.Itoa(cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: connect: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error {
			return postgres.Close(db)
		})
		gormDB = db
		return db, nil
	}

	fail := func(err error) (*Stores, error) {
		_ = s.Close(ctx)
		return nil, err
	}

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		db, err := openPostgres()
		if err != nil {
			return fail(err)
		}
		s.Movies = postgres.NewMovieRepository(db)
	default:
		db, err := openMongo()
		if err != nil {
			return fail(err)
		}
		repo := mongodb.NewMovieRepository(db, cfg.Mongo.Collection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fail(err)
		}
		s.Movies = repo
	}

	switch cfg.Auth.AttemptStore {
	case config.DriverPostgres:
		db, err := openPostgres()
		if err != nil {
			return fail(err)
		}
		s.LoginAttempts = postgres.NewLoginAttemptRepository(db)
	case config.DriverDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.Dynamo.Region,
			Endpoint:     cfg.Dynamo.Endpoint,
			AccessKey:    cfg.Dynamo.AccessKey,
			SecretKey:    cfg.Dynamo.SecretKey,
			SessionToken: cfg.Dynamo.SessionToken,
		})
		if err != nil {
			return fail(err)
		}
		repo := dynamodb.NewLoginAttemptRepository(client, cfg.Dynamo.LoginTable)
		if err := repo.EnsureTable(ctx); err != nil {
			return fail(err)
		}
		s.LoginAttempts = repo
	default:
		db, err := openMongo()
		if err != nil {
			return fail(err)
		}
		s.LoginAttempts = mongodb.NewLoginAttemptRepository(db)
	}

	return s, nil
}

// Close releases every connection opened by OpenStores.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errors.Join(errs...)
}
