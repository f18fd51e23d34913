package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	cfg.Admin.Email = strings.ToLower(strings.TrimSpace(cfg.Admin.Email))

	cfg.Records.Driver = normalizeDriver(cfg.Records.Driver, defaultRecordsDriver)
	if cfg.Records.Mongo.Collection == "" {
		cfg.Records.Mongo.Collection = defaultCollection
	}
	if cfg.Records.Mongo.Database == "" {
		cfg.Records.Mongo.Database = defaultMongoDatabase
	}
	if cfg.Records.Firestore.Collection == "" {
		cfg.Records.Firestore.Collection = defaultCollection
	}
	cfg.Records.MySQL.Params = copyStringMap(cfg.Records.MySQL.Params)

	cfg.Images.Driver = normalizeDriver(cfg.Images.Driver, defaultImagesDriver)
	cfg.Images.Local.PublicPath = normalizePublicPath(cfg.Images.Local.PublicPath)
	cfg.Images.S3.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Images.S3.Endpoint), "/")
	cfg.Images.S3.CustomDomain = strings.TrimRight(strings.TrimSpace(cfg.Images.S3.CustomDomain), "/")
	cfg.Images.S3.Prefix = strings.Trim(strings.TrimSpace(cfg.Images.S3.Prefix), "/")
	cfg.Images.GitHub.Path = strings.Trim(strings.TrimSpace(cfg.Images.GitHub.Path), "/")
	if cfg.Images.GitHub.Branch == "" {
		cfg.Images.GitHub.Branch = defaultGitHubBranch
	}

	cfg.Chat.Provider = normalizeDriver(cfg.Chat.Provider, defaultChatProvider)
	if cfg.Chat.TimeoutSeconds <= 0 {
		cfg.Chat.TimeoutSeconds = defaultChatTimeout
	}
	if cfg.Gallery.PageSize <= 0 {
		cfg.Gallery.PageSize = defaultGalleryPageSize
	}
	if cfg.Gallery.RefreshMinutes <= 0 {
		cfg.Gallery.RefreshMinutes = defaultGalleryRefresh
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func normalizeDriver(raw, fallback string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.ReplaceAll(d, "_", "-")
	if d == "" {
		return fallback
	}
	return d
}

func normalizePublicPath(raw string) string {
	p := strings.Trim(strings.TrimSpace(raw), "/")
	if p == "" {
		return defaultPublicPath
	}
	return "/" + p
}

func copyStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
