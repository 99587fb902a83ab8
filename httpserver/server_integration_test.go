package httpserver_test

import (
	"context"
	"moviecatalog/auth"
	"moviecatalog/httpserver"
	"moviecatalog/movie"
	pkgjwt "moviecatalog/pkg/jwt"
	"moviecatalog/pkg/password"
	"moviecatalog/postgres"
	"moviecatalog/storage"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "correct-horse-battery"
	testPublicBaseURL = "http://catalog.test/"
)

func MustCreateServer(t testing.TB, db *gorm.DB) *httpserver.Server {
	t.Helper()

	hasher := password.NewBcryptHasher(4)
	hash, err := hasher.Hash(testAdminPassword)
	require.NoError(t, err)

	posters, err := storage.NewLocalStore(t.TempDir(), storage.DefaultPrefix)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Storage.Dir = posters.Dir
	cfg.Storage.Prefix = posters.Prefix

	server := httpserver.Default(cfg)
	server.Logger = zaptest.NewLogger(t)
	server.Posters = posters
	server.MovieService = movie.NewUsecase(
		postgres.NewMovieRepository(db),
		movie.NewPosterDecorator(testPublicBaseURL),
	)
	server.AuthService = auth.NewUsecase(
		auth.Credentials{Email: testAdminEmail, PasswordHash: hash},
		postgres.NewLoginAttemptRepository(db),
		hasher,
		pkgjwt.NewJWTProvider(testJWTSecret, time.Hour),
	)

	return server
}

// MustCreateTestDatabase starts a PostgreSQL testcontainer and returns a GORM connection to it.
func MustCreateTestDatabase(t testing.TB) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	dbName, dbUser, dbPass := "test_catalog", "test", "testpass"
	postgre, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		pgcontainer.WithDatabase(dbName),
		pgcontainer.WithUsername(dbUser),
		pgcontainer.WithPassword(dbPass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		err := postgre.Terminate(ctx)
		assert.NoError(t, err, "failed to terminate postgres container")
	})

	host, port := extractHostAndPort(t, ctx, postgre)
	db, err := postgres.NewConnection(postgres.Options{
		DBName:   dbName,
		DBUser:   dbUser,
		Password: dbPass,
		Host:     host,
		Port:     port.Port(),
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err, "failed to connect to postgres database")
	t.Cleanup(func() { _ = postgres.Close(db) })

	return db
}

func extractHostAndPort(t testing.TB, ctx context.Context, postgre *pgcontainer.PostgresContainer) (string, nat.Port) {
	t.Helper()
	host, err := postgre.Host(ctx)
	assert.NoError(t, err, "failed to get container host")

	port, err := postgre.MappedPort(ctx, "5432")
	assert.NoError(t, err, "failed to get mapped port")
	return host, port
}

// MigrateTestDatabase runs all migration files against the test database
func MigrateTestDatabase(t testing.TB, db *gorm.DB, migrationPath string) {
	t.Helper()
	migrations := &migrate.FileMigrationSource{
		Dir: migrationPath,
	}

	sqlDB, err := db.DB()
	assert.NoError(t, err, "failed to get sql.DB from gorm.DB")

	_, err = migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	assert.NoError(t, err, "failed to run database migrations")
}
