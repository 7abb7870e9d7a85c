package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sakashimaa/shop-api/pkg/utils"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTP     `yaml:"http"`
	Storage  Storage  `yaml:"storage"`
	Mongo    Mongo    `yaml:"mongo"`
	Auth     Auth     `yaml:"auth"`
	Upload   Upload   `yaml:"upload"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Email    Email    `yaml:"email"`
	Tracing  Tracing  `yaml:"tracing"`
	Metrics  Metrics  `yaml:"metrics"`
	Limiter  Limiter  `yaml:"limiter"`
}

type HTTP struct {
	Port               string        `yaml:"port" env:"PORT" env-default:":4000"`
	PublicURL          string        `yaml:"public_url" env:"PUBLIC_URL" env-default:"http://localhost:4000"`
	BodyLimit          int           `yaml:"body_limit" env:"HTTP_BODY_LIMIT" env-default:"10485760"`
	Timeout            time.Duration `yaml:"timeout" env-default:"4s"`
	ProtectAdminRoutes bool          `yaml:"protect_admin_routes" env:"PROTECT_ADMIN_ROUTES" env-default:"true"`
}

// Storage selects the document store backend: "mongo" or "memory".
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`
}

type Mongo struct {
	URI      string        `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string        `yaml:"database" env:"MONGO_DATABASE" env-default:"shop"`
	Timeout  time.Duration `yaml:"timeout" env:"MONGO_TIMEOUT" env-default:"5s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

// Upload configures where POST /upload stores files. Driver is "local" or "s3".
type Upload struct {
	Driver        string `yaml:"driver" env:"UPLOAD_DRIVER" env-default:"local"`
	Dir           string `yaml:"dir" env:"UPLOAD_DIR" env-default:"./uploads"`
	S3Bucket      string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3Region      string `yaml:"s3_region" env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint    string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
	S3AccessKey   string `yaml:"s3_access_key" env:"S3_ACCESS_KEY_ID"`
	S3SecretKey   string `yaml:"s3_secret_key" env:"S3_SECRET_ACCESS_KEY"`
	S3Folder      string `yaml:"s3_folder" env:"S3_FOLDER" env-default:"products"`
	PublicBaseURL string `yaml:"public_base_url" env:"UPLOAD_PUBLIC_BASE_URL"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"REDIS_CACHE_TTL" env-default:"10m"`
}

type Kafka struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	ConsumerGroup string   `yaml:"consumer_group" env:"KAFKA_CONSUMER_GROUP" env-default:"shop-notification-group"`
}

type Email struct {
	Region          string `yaml:"region" env:"AWS_REGION" env-default:"us-east-1"`
	AccessKeyID     string `yaml:"access_key_id" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
	SenderEmail     string `yaml:"sender_email" env:"AWS_SENDER_ADDRESS"`
}

type Tracing struct {
	Endpoint string `yaml:"endpoint" env:"JAEGER_ENDPOINT"`
}

type Metrics struct {
	Addr string `yaml:"addr" env:"METRICS_ADDR" env-default:":9091"`
}

type Limiter struct {
	Max        int           `yaml:"max" env-default:"100"`
	Expiration time.Duration `yaml:"expiration" env-default:"1m"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %v\n", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
