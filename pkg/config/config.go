package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	AppEnv        string `envconfig:"APP_ENV" default:"local"`
	Port          int    `envconfig:"PORT" default:"8080"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	SentryDSN     string `envconfig:"SENTRY_DSN"`
	AllowOrigins  string `envconfig:"ALLOW_ORIGINS"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`

	DB struct {
		Driver    string `envconfig:"DB_DRIVER" default:"mongodb"`
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	Mongo struct {
		URI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database   string `envconfig:"MONGO_DATABASE" default:"movie_rating"`
		Collection string `envconfig:"MONGO_COLLECTION" default:"movies"`
	}
	Dynamo struct {
		Region       string `envconfig:"DYNAMO_REGION" default:"us-east-1"`
		Endpoint     string `envconfig:"DYNAMO_ENDPOINT"`
		AccessKey    string `envconfig:"DYNAMO_ACCESS_KEY"`
		SecretKey    string `envconfig:"DYNAMO_SECRET_KEY"`
		SessionToken string `envconfig:"DYNAMO_SESSION_TOKEN"`
		LoginTable   string `envconfig:"DYNAMO_LOGIN_TABLE" default:"login_attempts"`
	}
	Storage struct {
		Dir         string `envconfig:"STORAGE_DIR" default:"./images"`
		Prefix      string `envconfig:"STORAGE_PREFIX" default:"public/images"`
		UploadLimit string `envconfig:"UPLOAD_LIMIT" default:"5M"`
	}
	Auth struct {
		JWTSecret         string        `envconfig:"AUTH_JWT_SECRET"`
		TokenTTL          time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
		AdminEmail        string        `envconfig:"ADMIN_EMAIL"`
		AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
		// AttemptStore keeps login failures; empty means the DB_DRIVER store.
		AttemptStore string `envconfig:"LOGIN_ATTEMPT_STORE"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if cfg.DB.Driver != DriverMongoDB && cfg.DB.Driver != DriverPostgres {
		return nil, fmt.Errorf("load config error: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	cfg.Auth.AttemptStore = strings.ToLower(strings.TrimSpace(cfg.Auth.AttemptStore))
	switch cfg.Auth.AttemptStore {
	case "":
		cfg.Auth.AttemptStore = cfg.DB.Driver
	case DriverMongoDB, DriverPostgres, DriverDynamoDB:
	default:
		return nil, fmt.Errorf("load config error: unsupported LOGIN_ATTEMPT_STORE %q", cfg.Auth.AttemptStore)
	}

	return cfg, nil
}

// Origins splits ALLOW_ORIGINS on commas. An empty value allows every origin.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
