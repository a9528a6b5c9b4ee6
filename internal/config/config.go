package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCopyChunkSize is the block size used when streaming archive members
// to disk.
const DefaultCopyChunkSize = 1 << 20 // 1 MiB

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ExtractTimeout     time.Duration
	MaxRequestBodySize int64

	// Document intake settings
	AcceptedExtensions []string
	ArchivePassword    string
	TempDir            string
	MaxArchiveSize     int64
	CopyChunkSize      int
	MaxWorkers         int

	// Azure Blob Storage credentials for remote document fetching; both
	// empty disables the azure backend
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		ExtractTimeout:     parseDurationOrDefault("EXTRACT_TIMEOUT", 45*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 1*1024*1024), // 1MB
		AcceptedExtensions: parseExtensionList(getEnvOrDefault("ACCEPTED_EXTENSIONS", ".pdf")),
		ArchivePassword:    os.Getenv("ARCHIVE_PASSWORD"),
		TempDir:            os.Getenv("TEMP_DIR"), // empty means system temp
		MaxArchiveSize:     parseIntOrDefault("MAX_ARCHIVE_SIZE", 1024*1024*1024), // 1GB
		CopyChunkSize:      int(parseIntOrDefault("COPY_CHUNK_SIZE", DefaultCopyChunkSize)),
		MaxWorkers:         int(parseIntOrDefault("MAX_WORKERS", 0)), // 0 means CPU count
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxArchiveSize <= 0 {
		return nil, fmt.Errorf("MAX_ARCHIVE_SIZE must be > 0 (got %d)", cfg.MaxArchiveSize)
	}
	if cfg.CopyChunkSize <= 0 {
		return nil, fmt.Errorf("COPY_CHUNK_SIZE must be > 0 (got %d)", cfg.CopyChunkSize)
	}
	if len(cfg.AcceptedExtensions) == 0 {
		return nil, fmt.Errorf("ACCEPTED_EXTENSIONS must name at least one extension")
	}
	if cfg.RequestTimeout <= 0 || cfg.ExtractTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, extract=%s)",
			cfg.RequestTimeout, cfg.ExtractTimeout)
	}
	return cfg, nil
}

// parseExtensionList splits a comma-separated extension list, lowercases each
// entry and ensures the leading dot.
func parseExtensionList(raw string) []string {
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		exts = append(exts, part)
	}
	return exts
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
