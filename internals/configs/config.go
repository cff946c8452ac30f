package configs

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	JWTSecret string
	Cfg       AppConfig
)

type AppConfig struct {
	Port    string
	AppEnv  string
	Service string

	LogLevel  string
	LogFormat string

	DBUser               string
	DBPassword           string
	DBHost               string
	DBPort               string
	DBName               string
	DBSSLMode            string
	DBStatementTimeoutMS int

	JWTSecret   string
	JWTTTLHours int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins []string

	KitExpiryCron    string
	BlacklistTTLDays int
	MetricsEnabled   bool
	MigrateOnStart   bool
	SeedOnStart      bool
}

// =======================
// ENV LOADER
// =======================

// LoadEnv: .env (kalau ada) lalu resolve ke AppConfig via viper.
// Dipanggil sebelum logger siap, jadi pesan .env dikembalikan ke caller.
func LoadEnv() (AppConfig, string) {
	note := "🚀 Running in Railway, menggunakan ENV dari sistem"
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			note = "⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem"
		} else {
			note = "✅ .env file berhasil dimuat!"
		}
	}

	Cfg = Resolve(viper.New())
	JWTSecret = Cfg.JWTSecret
	return Cfg, note
}

// Resolve membaca semua key dari ENV (dengan default).
func Resolve(v *viper.Viper) AppConfig {
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_NAME", "labtrack")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_STATEMENT_TIMEOUT_MS", 3000)
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("KIT_EXPIRY_CRON", "15 0 * * *")
	v.SetDefault("BLACKLIST_TTL_DAYS", 7)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("SEED_ON_START", false)

	return AppConfig{
		Port:                 v.GetString("PORT"),
		AppEnv:               v.GetString("APP_ENV"),
		Service:              v.GetString("SERVICE_NAME"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:            strings.ToLower(v.GetString("LOG_FORMAT")),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBName:               v.GetString("DB_NAME"),
		DBSSLMode:            v.GetString("DB_SSLMODE"),
		DBStatementTimeoutMS: v.GetInt("DB_STATEMENT_TIMEOUT_MS"),
		JWTSecret:            strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTTTLHours:          v.GetInt("JWT_TTL_HOURS"),
		RedisAddr:            strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		CORSOrigins:          splitList(v.GetString("CORS_ORIGINS")),
		KitExpiryCron:        v.GetString("KIT_EXPIRY_CRON"),
		BlacklistTTLDays:     v.GetInt("BLACKLIST_TTL_DAYS"),
		MetricsEnabled:       v.GetBool("METRICS_ENABLED"),
		MigrateOnStart:       v.GetBool("MIGRATE_ON_START"),
		SeedOnStart:          v.GetBool("SEED_ON_START"),
	}
}

// LogSummary: cek key penting (tanpa membocorkan nilainya)
func (c AppConfig) LogSummary(log *zap.Logger) {
	if c.JWTSecret == "" {
		log.Error("❌ JWT_SECRET belum diset!")
	} else {
		log.Info("✅ JWT_SECRET berhasil dimuat.")
	}
	if c.RedisAddr == "" {
		log.Info("REDIS_ADDR kosong, rate limiter memakai memory lokal")
	}
	log.Info("config loaded",
		zap.String("env", c.AppEnv),
		zap.String("port", c.Port),
		zap.String("db_host", c.DBHost),
		zap.Strings("cors_origins", c.CORSOrigins),
		zap.Bool("metrics", c.MetricsEnabled),
	)
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c AppConfig) JWTTTL() time.Duration {
	if c.JWTTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
