package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	SupabaseURL         string // storage base, e.g. https://<project>.supabase.co
	SupabaseSecretKey   string // service_role key; the anon key cannot write to storage
	StripeSecretKey     string
	StripeWebhookSecret string
	ResendAPIKey        string
	MailFrom            string
	AdminEmail          string // fixed recipient for admin notices
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string

	// Listing wizard limits
	MaxImagesPerDeal  int
	MaxImageSizeBytes int64
	DraftTTL          time.Duration
	AutoSaveInterval  time.Duration
	SessionIdleWindow time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	maxImages := viper.GetInt("MAX_IMAGES_PER_DEAL")
	if maxImages <= 0 {
		maxImages = 10
	}
	maxSize := viper.GetInt64("MAX_IMAGE_SIZE_BYTES")
	if maxSize <= 0 {
		maxSize = 5 << 20 // 5 MB, same ceiling as the web uploader
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		SupabaseURL:         viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		StripeSecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
		ResendAPIKey:        viper.GetString("RESEND_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
		AdminEmail:          adminEmail(viper.GetString("ADMIN_EMAIL")),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		MaxImagesPerDeal:    maxImages,
		MaxImageSizeBytes:   maxSize,
		DraftTTL:            24 * time.Hour,
		AutoSaveInterval:    30 * time.Second,
		SessionIdleWindow:   2 * time.Hour,
	}, nil
}

func adminEmail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "admin@equitymd.com"
	}
	return s
}
