// Package config loads the slider's runtime configuration from flags, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	SourceUnsplash = "unsplash"
	SourceS3       = "s3"
	SourceLocal    = "local"

	envPrefix = "SLIDER"
)

type Config struct {
	Addr   string
	DBPath string
	Source string

	UnsplashAccessKey string
	UnsplashBaseURL   string

	S3Bucket   string
	AWSProfile string

	LocalPath string

	LogLevel slog.Level
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("imageslider", pflag.ContinueOnError)
	fs.String("addr", "0.0.0.0:8080", "Address the web server listens on")
	fs.String("db", "data/imageslider.db", "Path of the sqlite settings database")
	fs.String("source", SourceUnsplash, "Image source: unsplash, s3 or local")
	fs.String("unsplash-access-key", "", "Unsplash API access key")
	fs.String("unsplash-base-url", "https://api.unsplash.com", "Unsplash API base url")
	fs.String("s3-bucket", "", "Bucket to list images from when source is s3")
	fs.String("aws-profile", "", "Shared config profile used for s3")
	fs.String("local-path", "", "Directory to list images from when source is local")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")
	return fs
}

// Load reads configuration with precedence flags > environment > .env files >
// defaults. Missing .env files are ignored. Environment variables use the
// SLIDER_ prefix, e.g. SLIDER_S3_BUCKET; the access key also accepts
// UNSPLASH_ACCESS_KEY.
func Load(args []string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("env file not found, skipping", "file", f)
				continue
			}
			return Config{}, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("unsplash-access-key", envPrefix+"_UNSPLASH_ACCESS_KEY", "UNSPLASH_ACCESS_KEY"); err != nil {
		return Config{}, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg := Config{
		Addr:              v.GetString("addr"),
		DBPath:            v.GetString("db"),
		Source:            strings.ToLower(v.GetString("source")),
		UnsplashAccessKey: v.GetString("unsplash-access-key"),
		UnsplashBaseURL:   strings.TrimRight(v.GetString("unsplash-base-url"), "/"),
		S3Bucket:          v.GetString("s3-bucket"),
		AWSProfile:        v.GetString("aws-profile"),
		LocalPath:         v.GetString("local-path"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Source {
	case SourceUnsplash:
		if c.UnsplashAccessKey == "" {
			return errors.New("no unsplash access key provided, set UNSPLASH_ACCESS_KEY or --unsplash-access-key")
		}
	case SourceS3:
		if c.S3Bucket == "" {
			return errors.New("no s3 bucket provided, set SLIDER_S3_BUCKET or --s3-bucket")
		}
	case SourceLocal:
		if c.LocalPath == "" {
			return errors.New("no local path provided, set SLIDER_LOCAL_PATH or --local-path")
		}
	default:
		return fmt.Errorf("unknown image source %q, need one of %s, %s, %s", c.Source, SourceUnsplash, SourceS3, SourceLocal)
	}
	if c.Addr == "" {
		return errors.New("no listen address provided")
	}
	return nil
}
