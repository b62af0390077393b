package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderFashn  = "fashn"
	ProviderFlux   = "flux"

	StoreCloudinary = "cloudinary"
	StoreS3         = "s3"
	StoreFilesystem = "filesystem"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	SentryDSN          string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
	TrustProxyHeaders  bool

	TryOn    TryOnConfig
	Store    StoreConfig
	Gemini   GeminiConfig
	Fal      FalConfig
	Seedream SeedreamConfig
}

// TryOnConfig selects how the try-on pipeline runs for this deployment.
type TryOnConfig struct {
	Provider        string
	PromptMode      string
	RequestTimeout  time.Duration
	AssetsDir       string
	CatalogPath     string
	LocalAssetHosts []string
	MaxBodyBytes    int64
}

// StoreConfig holds the settings of every image store backend. Only the
// backend named by Backend is constructed.
type StoreConfig struct {
	Backend    string
	Folder     string
	Cloudinary CloudinaryConfig
	S3         S3Config
	Filesystem FilesystemConfig
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type FilesystemConfig struct {
	Path    string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type FalConfig struct {
	APIKey       string
	QueueURL     string
	PollInterval time.Duration
	PollTimeout  time.Duration
	FashnModel   string
	FluxModel    string
}

type SeedreamConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Missing credentials are not an error here; they are reported per request.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		SentryDSN:          strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),
		TryOn: TryOnConfig{
			Provider:        strings.ToLower(getEnv("TRYON_PROVIDER", ProviderGemini)),
			PromptMode:      strings.ToLower(getEnv("TRYON_PROMPT_MODE", "full")),
			RequestTimeout:  time.Second * time.Duration(getEnvInt("TRYON_REQUEST_TIMEOUT_SECONDS", 170)),
			AssetsDir:       getEnv("ASSETS_DIR", "public"),
			CatalogPath:     strings.TrimSpace(os.Getenv("CATALOG_PATH")),
			LocalAssetHosts: getEnvList("PUBLIC_ASSET_HOSTS", []string{"localhost", "127.0.0.1"}),
			MaxBodyBytes:    int64(getEnvInt("TRYON_MAX_BODY_MB", 15)) << 20,
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("IMAGE_STORE", StoreCloudinary)),
			Folder:  strings.Trim(getEnv("IMAGE_STORE_FOLDER", "try-on"), "/"),
			Cloudinary: CloudinaryConfig{
				CloudName: strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
				APIKey:    strings.TrimSpace(os.Getenv("CLOUDINARY_API_KEY")),
				APISecret: strings.TrimSpace(os.Getenv("CLOUDINARY_API_SECRET")),
			},
			S3: S3Config{
				Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
				Region:          getEnv("S3_REGION", "auto"),
				Endpoint:        s3Endpoint(),
				AccessKeyID:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
				SecretAccessKey: strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
				PublicBaseURL:   strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
			},
			Filesystem: FilesystemConfig{
				Path:    getEnv("STORAGE_PATH", "./data/uploads"),
				BaseURL: strings.TrimRight(getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"), "/"),
			},
		},
		Gemini: GeminiConfig{
			APIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-image-preview"),
			BaseURL: strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		},
		Fal: FalConfig{
			APIKey:       strings.TrimSpace(os.Getenv("FAL_KEY")),
			QueueURL:     strings.TrimRight(getEnv("FAL_QUEUE_URL", "https://queue.fal.run"), "/"),
			PollInterval: time.Millisecond * time.Duration(getEnvInt("FAL_POLL_INTERVAL_MS", 2000)),
			PollTimeout:  time.Second * time.Duration(getEnvInt("FAL_POLL_TIMEOUT_SECONDS", 150)),
			FashnModel:   getEnv("FASHN_MODEL", "fal-ai/fashn/tryon/v1.6"),
			FluxModel:    getEnv("FLUX_MODEL", "fal-ai/flux-pro/kontext"),
		},
		Seedream: SeedreamConfig{
			APIKey:  strings.TrimSpace(os.Getenv("SEEDREAM_API_KEY")),
			BaseURL: strings.TrimSpace(os.Getenv("SEEDREAM_API_URL")),
			Model:   getEnv("SEEDREAM_MODEL", "seededit-3-0-i2i-250628"),
		},
	}

	switch cfg.TryOn.Provider {
	case ProviderGemini, ProviderFashn, ProviderFlux:
	default:
		return nil, fmt.Errorf("TRYON_PROVIDER %q is not supported", cfg.TryOn.Provider)
	}
	switch cfg.Store.Backend {
	case StoreCloudinary, StoreS3, StoreFilesystem:
	default:
		return nil, fmt.Errorf("IMAGE_STORE %q is not supported", cfg.Store.Backend)
	}
	switch cfg.TryOn.PromptMode {
	case "full", "top-half", "crown", "analyze":
	default:
		return nil, fmt.Errorf("TRYON_PROMPT_MODE %q is not supported", cfg.TryOn.PromptMode)
	}
	if cfg.Fal.PollInterval <= 0 {
		return nil, fmt.Errorf("FAL_POLL_INTERVAL_MS must be positive")
	}
	if cfg.Store.Folder == "" {
		cfg.Store.Folder = "try-on"
	}

	return cfg, nil
}

// s3Endpoint prefers an explicit endpoint and falls back to the Cloudflare R2
// account endpoint.
func s3Endpoint() string {
	if v := strings.TrimSpace(os.Getenv("S3_ENDPOINT")); v != "" {
		return strings.TrimRight(v, "/")
	}
	if account := strings.TrimSpace(os.Getenv("R2_ACCOUNT_ID")); account != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", account)
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
