package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	AllowedOrigins []string           `yaml:"allowed_origins"`
	JWTSecret      string             `yaml:"jwt_secret"`
	RedisURL       string             `yaml:"redis_url"` // empty disables redis-backed features
	Paths          RuntimePathsConfig `yaml:"paths"`
	Admin          AdminConfig        `yaml:"admin"`
	Records        RecordsConfig      `yaml:"records"`
	Images         ImagesConfig       `yaml:"images"`
	Chat           ChatConfig         `yaml:"chat"`
	Mail           MailConfig         `yaml:"mail"`
	Reconcile      ReconcileConfig    `yaml:"reconcile"`
	Gallery        GalleryConfig      `yaml:"gallery"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

// AdminConfig is the single dashboard account.
type AdminConfig struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

type RecordsConfig struct {
	Driver    string          `yaml:"driver"` // mongo | firestore | mysql | memory
	Mongo     MongoConfig     `yaml:"mongo"`
	Firestore FirestoreConfig `yaml:"firestore"`
	MySQL     MySQLConfig     `yaml:"mysql"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Collection      string `yaml:"collection"`
}

type MySQLConfig struct {
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Params   map[string]string `yaml:"params"`
}

type ImagesConfig struct {
	Driver        string       `yaml:"driver"` // local | s3 | github | memory
	MaxSizeMB     int          `yaml:"max_size_mb"`
	ValidateImage *bool        `yaml:"validate_image"`
	Local         LocalConfig  `yaml:"local"`
	S3            S3Config     `yaml:"s3"`
	GitHub        GitHubConfig `yaml:"github"`
}

type LocalConfig struct {
	Dir        string `yaml:"dir"`
	PublicPath string `yaml:"public_path"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyleAccess bool   `yaml:"path_style_access"`
	CustomDomain    string `yaml:"custom_domain"`
	Prefix          string `yaml:"prefix"`
}

type GitHubConfig struct {
	Token  string `yaml:"token"`
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

type ChatConfig struct {
	Provider       string `yaml:"provider"` // openai | anthropic
	APIKey         string `yaml:"api_key"`
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	SystemPrompt   string `yaml:"system_prompt"`
	Greeting       string `yaml:"greeting"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxTokens      int    `yaml:"max_tokens"`
}

type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	ResendKey string `yaml:"resend_key"`
}

type ReconcileConfig struct {
	Enable          *bool `yaml:"enable"`
	IntervalMinutes int   `yaml:"interval_minutes"`
	GraceMinutes    int   `yaml:"grace_minutes"`
}

type GalleryConfig struct {
	PageSize       int `yaml:"page_size"`
	RefreshMinutes int `yaml:"refresh_minutes"`
}
