package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CORS       CORSConfig
	Storage    StorageConfig
	S3         S3Config
	Results    ResultsConfig
	DB         DBConfig
	Classifier ProviderConfig
	Embedding  ProviderConfig
	Index      IndexConfig
	Pipeline   PipelineConfig
	Extract    ExtractConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	Environment   string        `mapstructure:"environment"`
	MaxUploadSize int64         `mapstructure:"max_upload_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects the blob store used for index snapshots and archived uploads.
type StorageConfig struct {
	Backend  string `mapstructure:"backend"` // local | s3
	LocalDir string `mapstructure:"local_dir"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// ResultsConfig selects the results store.
type ResultsConfig struct {
	Backend  string `mapstructure:"backend"` // file | postgres | sqlite
	FilePath string `mapstructure:"file_path"`
}

// DBConfig holds SQL connection settings for the results store.
type DBConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxOpen    int    `mapstructure:"max_open"`
	MaxIdle    int    `mapstructure:"max_idle"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// ProviderConfig holds settings for an external model provider.
type ProviderConfig struct {
	Provider          string  `mapstructure:"provider"`
	APIKey            string  `mapstructure:"api_key"`
	Endpoint          string  `mapstructure:"endpoint"`
	Model             string  `mapstructure:"model"`
	Dimensions        int     `mapstructure:"dimensions"`
	TimeoutSecs       int     `mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Preload     bool   `mapstructure:"preload"`
	DefaultName string `mapstructure:"default_name"`
}

// PipelineConfig holds ingestion settings.
type PipelineConfig struct {
	InputDir    string `mapstructure:"input_dir"`
	Concurrency int    `mapstructure:"concurrency"`
}

// ExtractConfig holds PDF text extraction settings.
type ExtractConfig struct {
	Pdftotext   string `mapstructure:"pdftotext"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

const envPrefix = "DOCINTEL"

// Load reads configuration from environment variables with the DOCINTEL_ prefix.
// When DOCINTEL_CONFIG_FILE is set, that file is read first and env vars override it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	envBindings := map[string]string{
		"server.port":                    "DOCINTEL_SERVER_PORT",
		"server.read_timeout":            "DOCINTEL_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "DOCINTEL_SERVER_WRITE_TIMEOUT",
		"server.environment":             "DOCINTEL_SERVER_ENVIRONMENT",
		"server.max_upload_mb":           "DOCINTEL_SERVER_MAX_UPLOAD_MB",
		"log.level":                      "DOCINTEL_LOG_LEVEL",
		"log.format":                     "DOCINTEL_LOG_FORMAT",
		"cors.allowed_origins":           "DOCINTEL_CORS_ALLOWED_ORIGINS",
		"storage.backend":                "DOCINTEL_STORAGE_BACKEND",
		"storage.local_dir":              "DOCINTEL_STORAGE_LOCAL_DIR",
		"s3.region":                      "DOCINTEL_S3_REGION",
		"s3.bucket":                      "DOCINTEL_S3_BUCKET",
		"s3.endpoint":                    "DOCINTEL_S3_ENDPOINT",
		"s3.access_key":                  "DOCINTEL_S3_ACCESS_KEY",
		"s3.secret_key":                  "DOCINTEL_S3_SECRET_KEY",
		"results.backend":                "DOCINTEL_RESULTS_BACKEND",
		"results.file_path":              "DOCINTEL_RESULTS_FILE_PATH",
		"db.host":                        "DOCINTEL_DB_HOST",
		"db.port":                        "DOCINTEL_DB_PORT",
		"db.user":                        "DOCINTEL_DB_USER",
		"db.password":                    "DOCINTEL_DB_PASSWORD",
		"db.name":                        "DOCINTEL_DB_NAME",
		"db.sslmode":                     "DOCINTEL_DB_SSLMODE",
		"db.max_open":                    "DOCINTEL_DB_MAX_OPEN",
		"db.max_idle":                    "DOCINTEL_DB_MAX_IDLE",
		"db.sqlite_path":                 "DOCINTEL_DB_SQLITE_PATH",
		"classifier.provider":            "DOCINTEL_CLASSIFIER_PROVIDER",
		"classifier.api_key":             "DOCINTEL_CLASSIFIER_API_KEY",
		"classifier.endpoint":            "DOCINTEL_CLASSIFIER_ENDPOINT",
		"classifier.model":               "DOCINTEL_CLASSIFIER_MODEL",
		"classifier.timeout_secs":        "DOCINTEL_CLASSIFIER_TIMEOUT_SECS",
		"classifier.requests_per_second": "DOCINTEL_CLASSIFIER_REQUESTS_PER_SECOND",
		"classifier.burst":               "DOCINTEL_CLASSIFIER_BURST",
		"embedding.provider":             "DOCINTEL_EMBEDDING_PROVIDER",
		"embedding.api_key":              "DOCINTEL_EMBEDDING_API_KEY",
		"embedding.endpoint":             "DOCINTEL_EMBEDDING_ENDPOINT",
		"embedding.model":                "DOCINTEL_EMBEDDING_MODEL",
		"embedding.dimensions":           "DOCINTEL_EMBEDDING_DIMENSIONS",
		"embedding.timeout_secs":         "DOCINTEL_EMBEDDING_TIMEOUT_SECS",
		"embedding.requests_per_second":  "DOCINTEL_EMBEDDING_REQUESTS_PER_SECOND",
		"embedding.burst":                "DOCINTEL_EMBEDDING_BURST",
		"index.preload":                  "DOCINTEL_INDEX_PRELOAD",
		"index.default_name":             "DOCINTEL_INDEX_DEFAULT_NAME",
		"pipeline.input_dir":             "DOCINTEL_PIPELINE_INPUT_DIR",
		"pipeline.concurrency":           "DOCINTEL_PIPELINE_CONCURRENCY",
		"extract.pdftotext":              "DOCINTEL_EXTRACT_PDFTOTEXT",
		"extract.timeout_secs":           "DOCINTEL_EXTRACT_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if file := os.Getenv(envPrefix + "_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if DOCINTEL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCINTEL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:          serverPort,
		ReadTimeout:   v.GetDuration("server.read_timeout"),
		WriteTimeout:  v.GetDuration("server.write_timeout"),
		Environment:   v.GetString("server.environment"),
		MaxUploadSize: v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}
	cfg.Storage = StorageConfig{
		Backend:  v.GetString("storage.backend"),
		LocalDir: v.GetString("storage.local_dir"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Results = ResultsConfig{
		Backend:  v.GetString("results.backend"),
		FilePath: v.GetString("results.file_path"),
	}
	cfg.DB = DBConfig{
		Host:       v.GetString("db.host"),
		Port:       v.GetInt("db.port"),
		User:       v.GetString("db.user"),
		Password:   v.GetString("db.password"),
		Name:       v.GetString("db.name"),
		SSLMode:    v.GetString("db.sslmode"),
		MaxOpen:    v.GetInt("db.max_open"),
		MaxIdle:    v.GetInt("db.max_idle"),
		SQLitePath: v.GetString("db.sqlite_path"),
	}
	cfg.Classifier = providerConfig(v, "classifier")
	cfg.Embedding = providerConfig(v, "embedding")
	cfg.Index = IndexConfig{
		Preload:     v.GetBool("index.preload"),
		DefaultName: v.GetString("index.default_name"),
	}
	cfg.Pipeline = PipelineConfig{
		InputDir:    v.GetString("pipeline.input_dir"),
		Concurrency: v.GetInt("pipeline.concurrency"),
	}
	cfg.Extract = ExtractConfig{
		Pdftotext:   v.GetString("extract.pdftotext"),
		TimeoutSecs: v.GetInt("extract.timeout_secs"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend selectors.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	switch c.Results.Backend {
	case "file", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported results backend %q", c.Results.Backend)
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("pipeline.concurrency must be at least 1, got %d", c.Pipeline.Concurrency)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "data/models")

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docintel")
	v.SetDefault("s3.endpoint", "")

	v.SetDefault("results.backend", "file")
	v.SetDefault("results.file_path", "output.json")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docintel")
	v.SetDefault("db.password", "docintel_secret")
	v.SetDefault("db.name", "docintel")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)
	v.SetDefault("db.sqlite_path", "data/results.db")

	v.SetDefault("classifier.provider", "huggingface")
	v.SetDefault("classifier.endpoint", "https://api-inference.huggingface.co/models")
	v.SetDefault("classifier.model", "facebook/bart-large-mnli")
	v.SetDefault("classifier.timeout_secs", 60)
	v.SetDefault("classifier.requests_per_second", 5)
	v.SetDefault("classifier.burst", 1)

	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.endpoint", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 384)
	v.SetDefault("embedding.timeout_secs", 60)
	v.SetDefault("embedding.requests_per_second", 10)
	v.SetDefault("embedding.burst", 1)

	v.SetDefault("index.preload", true)
	v.SetDefault("index.default_name", "default")

	v.SetDefault("pipeline.input_dir", "data/input")
	v.SetDefault("pipeline.concurrency", 4)

	v.SetDefault("extract.pdftotext", "pdftotext")
	v.SetDefault("extract.timeout_secs", 60)
}

func providerConfig(v *viper.Viper, section string) ProviderConfig {
	return ProviderConfig{
		Provider:          v.GetString(section + ".provider"),
		APIKey:            v.GetString(section + ".api_key"),
		Endpoint:          v.GetString(section + ".endpoint"),
		Model:             v.GetString(section + ".model"),
		Dimensions:        v.GetInt(section + ".dimensions"),
		TimeoutSecs:       v.GetInt(section + ".timeout_secs"),
		RequestsPerSecond: v.GetFloat64(section + ".requests_per_second"),
		Burst:             v.GetInt(section + ".burst"),
	}
}

// splitList parses a comma-separated string.
func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
