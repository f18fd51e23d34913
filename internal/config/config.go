package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at configPath on top of the built-in defaults.
// A missing file is an error; an empty path means DefaultConfigPath.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes raw YAML, applies env overrides and validates the result.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	applyEnv(&cfg)
	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Records: RecordsConfig{
			Driver: defaultRecordsDriver,
			Mongo: MongoConfig{
				Database:   defaultMongoDatabase,
				Collection: defaultCollection,
			},
			Firestore: FirestoreConfig{Collection: defaultCollection},
			MySQL: MySQLConfig{
				Host: defaultDBHost,
				Port: defaultDBPort,
				User: defaultDBUser,
				Name: defaultDBName,
			},
		},
		Images: ImagesConfig{
			Driver:    defaultImagesDriver,
			MaxSizeMB: defaultUploadMaxMB,
			Local:     LocalConfig{PublicPath: defaultPublicPath},
			GitHub: GitHubConfig{
				Branch: defaultGitHubBranch,
				Path:   defaultGitHubPath,
			},
		},
		Chat: ChatConfig{
			Provider:       defaultChatProvider,
			TimeoutSeconds: defaultChatTimeout,
			MaxTokens:      600,
		},
		Reconcile: ReconcileConfig{
			IntervalMinutes: defaultReconcileEvery,
			GraceMinutes:    defaultReconcileGrace,
		},
		Gallery: GalleryConfig{
			PageSize:       defaultGalleryPageSize,
			RefreshMinutes: defaultGalleryRefresh,
		},
	}
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvJWTSecret)); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGitHubToken)); v != "" {
		cfg.Images.GitHub.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvChatAPIKey)); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMongoURI)); v != "" {
		cfg.Records.Mongo.URI = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogDir)); v != "" {
		cfg.Paths.Logs = v
	}
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}

	switch cfg.Records.Driver {
	case "memory":
	case "mongo":
		if cfg.Records.Mongo.URI == "" {
			return errors.New("records.mongo.uri is required for the mongo driver")
		}
	case "firestore":
		if cfg.Records.Firestore.ProjectID == "" {
			return errors.New("records.firestore.project_id is required for the firestore driver")
		}
	case "mysql":
		if cfg.Records.MySQL.DSN == "" && (cfg.Records.MySQL.Port < 1 || cfg.Records.MySQL.Port > 65535) {
			return fmt.Errorf("invalid records.mysql.port %d, expected 1-65535", cfg.Records.MySQL.Port)
		}
	default:
		return fmt.Errorf("unknown records.driver %q", cfg.Records.Driver)
	}

	switch cfg.Images.Driver {
	case "memory", "local":
	case "s3":
		s3 := cfg.Images.S3
		if s3.Bucket == "" || s3.Region == "" || s3.AccessKeyID == "" || s3.SecretAccessKey == "" {
			return errors.New("incomplete images.s3 config: bucket/region/access_key_id/secret_access_key are required")
		}
	case "github":
		gh := cfg.Images.GitHub
		if gh.Token == "" || gh.Owner == "" || gh.Repo == "" {
			return errors.New("incomplete images.github config: token/owner/repo are required")
		}
	default:
		return fmt.Errorf("unknown images.driver %q", cfg.Images.Driver)
	}

	if cfg.Images.MaxSizeMB < 0 {
		return fmt.Errorf("invalid images.max_size_mb %d", cfg.Images.MaxSizeMB)
	}
	if cfg.Reconcile.IntervalMinutes < 1 || cfg.Reconcile.GraceMinutes < 1 {
		return errors.New("reconcile.interval_minutes and reconcile.grace_minutes must be positive")
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return ResolveRuntimePath("", "logs")
	}
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

// ImageDir is the local image store root.
func (c *AppConfig) ImageDir() string {
	if c == nil {
		return ResolveRuntimePath("", "uploads")
	}
	return ResolveRuntimePath(c.Images.Local.Dir, "uploads")
}

func (c *AppConfig) RedisEnabled() bool {
	return c != nil && c.RedisURL != ""
}

// ReconcileEnabled defaults to on whenever the journal can be persisted.
func (c *AppConfig) ReconcileEnabled() bool {
	if !c.RedisEnabled() {
		return false
	}
	if c.Reconcile.Enable == nil {
		return true
	}
	return *c.Reconcile.Enable
}

func (c *AppConfig) ValidateUploads() bool {
	if c.Images.ValidateImage == nil {
		return true
	}
	return *c.Images.ValidateImage
}

func (c *AppConfig) ReconcileInterval() time.Duration {
	return time.Duration(c.Reconcile.IntervalMinutes) * time.Minute
}

func (c *AppConfig) ReconcileGrace() time.Duration {
	return time.Duration(c.Reconcile.GraceMinutes) * time.Minute
}

func (c *AppConfig) GalleryRefresh() time.Duration {
	return time.Duration(c.Gallery.RefreshMinutes) * time.Minute
}

func (c *AppConfig) ChatTimeout() time.Duration {
	return time.Duration(c.Chat.TimeoutSeconds) * time.Second
}

func (c *AppConfig) UploadLimit() int64 {
	return int64(c.Images.MaxSizeMB) * 1024 * 1024
}
