package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"

	defaultRecordsDriver   = "memory"
	defaultImagesDriver    = "local"
	defaultCollection      = "locations"
	defaultMongoDatabase   = "eco_explorer"
	defaultDBHost          = "127.0.0.1"
	defaultDBPort          = 3306
	defaultDBUser          = "root"
	defaultDBName          = "eco_explorer"
	defaultPublicPath      = "/uploads"
	defaultGitHubBranch    = "main"
	defaultGitHubPath      = "images"
	defaultChatProvider    = "openai"
	defaultChatTimeout     = 10
	defaultReconcileEvery  = 30
	defaultReconcileGrace  = 60
	defaultGalleryPageSize = 8
	defaultGalleryRefresh  = 10
	defaultUploadMaxMB     = 10
)

// Env variables that override secrets from the YAML file.
const (
	EnvJWTSecret   = "JWT_SECRET"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvChatAPIKey  = "CHAT_API_KEY"
	EnvMongoURI    = "MONGO_URI"
	EnvRedisURL    = "REDIS_URL"
	EnvLogDir      = "LOG_DIR"
)
