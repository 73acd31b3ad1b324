package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables,
// an optional .env file and an optional config.yaml.
type Config struct {
	ServerPort  string
	SwaggerHost string
	ResetDB     bool

	DBDriver   string
	MySQLDSN   string
	SQLitePath string

	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionSecret string
	SessionTTL    time.Duration
	RememberTTL   time.Duration
	CookieSecure  bool

	StorageDriver string
	UploadDir     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3KeyPrefix   string
	AWSProfile    string

	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailSender   string

	LogLevel  string
	LogFormat string
}

// Load builds Config with sensible defaults. Values already present in the
// environment win over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_port", "8080")
	v.SetDefault("swagger_host", "")
	v.SetDefault("reset_db", false)
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("mysql_dsn", "user:password@tcp(localhost:3306)/scribefinder?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("sqlite_path", "data/scribefinder.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl", 12*time.Hour)
	v.SetDefault("remember_ttl", 365*24*time.Hour)
	v.SetDefault("cookie_secure", false)
	v.SetDefault("storage_driver", "local")
	v.SetDefault("upload_dir", "static/profile_pics")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_key_prefix", "profile_pics")
	v.SetDefault("aws_profile", "")
	v.SetDefault("mail_host", "")
	v.SetDefault("mail_port", 587)
	v.SetDefault("mail_username", "")
	v.SetDefault("mail_password", "")
	v.SetDefault("mail_sender", "noreply@scribefinder.local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	cfg := &Config{
		ServerPort:    v.GetString("server_port"),
		SwaggerHost:   v.GetString("swagger_host"),
		ResetDB:       v.GetBool("reset_db"),
		DBDriver:      strings.ToLower(v.GetString("db_driver")),
		MySQLDSN:      v.GetString("mysql_dsn"),
		SQLitePath:    v.GetString("sqlite_path"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisDB:       v.GetInt("redis_db"),
		RedisPass:     v.GetString("redis_password"),
		SessionSecret: v.GetString("session_secret"),
		SessionTTL:    v.GetDuration("session_ttl"),
		RememberTTL:   v.GetDuration("remember_ttl"),
		CookieSecure:  v.GetBool("cookie_secure"),
		StorageDriver: strings.ToLower(v.GetString("storage_driver")),
		UploadDir:     v.GetString("upload_dir"),
		S3Bucket:      v.GetString("s3_bucket"),
		S3Region:      v.GetString("s3_region"),
		S3Endpoint:    v.GetString("s3_endpoint"),
		S3KeyPrefix:   v.GetString("s3_key_prefix"),
		AWSProfile:    v.GetString("aws_profile"),
		MailHost:      v.GetString("mail_host"),
		MailPort:      v.GetInt("mail_port"),
		MailUsername:  v.GetString("mail_username"),
		MailPassword:  v.GetString("mail_password"),
		MailSender:    v.GetString("mail_sender"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.SessionTTL <= 0 || c.RememberTTL <= 0 {
		return fmt.Errorf("session lifetimes must be positive")
	}
	return nil
}
