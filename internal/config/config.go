package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                     string
	Port                    string
	SessionSecret           string
	DatabaseURL             string
	RedisURL                string
	ResendAPIKey            string // RESEND_API_KEY for transactional emails
	MailFrom                string // MAIL_FROM sender email (default noreply@eventhost.app)
	PrivateObjectDir        string // PRIVATE_OBJECT_DIR bucket prefix for uploaded objects
	PublicObjectSearchPaths []string
	FrontendURLEndsWith     string
	DevPassword             string
	AllowCrossSiteDev       bool
	BaseURL                 string // resolved base URL for links embedded in emails
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

	return &Config{
		Env:                     env,
		Port:                    port,
		SessionSecret:           viper.GetString("SESSION_SECRET"),
		DatabaseURL:             viper.GetString("DATABASE_URL"),
		RedisURL:                viper.GetString("REDIS_URL"),
		ResendAPIKey:            viper.GetString("RESEND_API_KEY"),
		MailFrom:                viper.GetString("MAIL_FROM"),
		PrivateObjectDir:        viper.GetString("PRIVATE_OBJECT_DIR"),
		PublicObjectSearchPaths: splitPaths(viper.GetString("PUBLIC_OBJECT_SEARCH_PATHS")),
		FrontendURLEndsWith:     viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:             viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:       strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		BaseURL:                 resolveBaseURL(viper.GetString("REPLIT_DOMAINS"), viper.GetString("VERCEL_URL"), port),
	}, nil
}

func splitPaths(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolveBaseURL picks the public base URL used in email links:
// first Replit domain, else Vercel URL, else localhost with the bound port.
func resolveBaseURL(replitDomains, vercelURL, port string) string {
	if d := strings.TrimSpace(replitDomains); d != "" {
		first := strings.TrimSpace(strings.SplitN(d, ",", 2)[0])
		if first != "" {
			return "https://" + first
		}
	}
	if v := strings.TrimSpace(vercelURL); v != "" {
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return v
		}
		return "https://" + v
	}
	return "http://localhost:" + port
}
