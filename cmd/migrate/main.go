package main

import (
	"flag"
	"fmt"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/logger"
	"moviecatalog/postgres"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

func main() {
	var (
		dir   string
		down  bool
		limit int
	)
	flag.StringVar(&dir, "dir", "migrations", "Directory holding the SQL migrations")
	flag.BoolVar(&down, "down", false, "Roll back instead of applying")
	flag.IntVar(&limit, "limit", 0, "Maximum number of migrations to run (0 = all)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{AppEnv: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.DB.Driver != config.DriverPostgres && cfg.Auth.AttemptStore != config.DriverPostgres {
		log.Info("postgres is not in use, nothing to migrate", zap.String("db_driver", cfg.DB.Driver))
		return
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
		Logger:   log,
	})
	if err != nil {
		log.Fatal("cannot connect to db", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("cannot get db instance", zap.Error(err))
	}

	direction := migrate.Up
	if down {
		direction = migrate.Down
	}

	total, err := migrate.ExecMax(sqlDB, "postgres", &migrate.FileMigrationSource{Dir: dir}, direction, limit)
	if err != nil {
		log.Fatal("cannot execute migration", zap.Error(err))
	}

	log.Info("applied migrations", zap.Int("total", total), zap.Bool("down", down))
}
