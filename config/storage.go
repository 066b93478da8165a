package config

import "strings"

// StorageBackend identifies a file storage backend.
type StorageBackend string

const (
	// StorageBackendLocal stores uploaded files on the local disk.
	StorageBackendLocal StorageBackend = "local"
	// StorageBackendS3 stores uploaded files in an S3-compatible bucket.
	StorageBackendS3 StorageBackend = "s3"
)

// StorageConfig contains file storage configuration.
type StorageConfig struct {
	// Backend selects the storage implementation: "local" or "s3".
	Backend StorageBackend `env:"STORAGE_BACKEND" envDefault:"local"`

	// Root is the directory under which uploaded files live (local backend).
	Root string `env:"STORAGE_ROOT" envDefault:"./public"`

	// S3 settings (s3 backend).
	S3Endpoint  string `env:"STORAGE_S3_ENDPOINT"`
	S3AccessKey string `env:"STORAGE_S3_ACCESS_KEY"`
	S3SecretKey string `env:"STORAGE_S3_SECRET_KEY"`
	S3Bucket    string `env:"STORAGE_S3_BUCKET"    envDefault:"mod-files"`
	S3UseSSL    bool   `env:"STORAGE_S3_USE_SSL"   envDefault:"true"`
}

// Sanitize applies guardrails to storage configuration values.
func (c *StorageConfig) Sanitize() {
	backend := StorageBackend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	if backend != StorageBackendS3 {
		backend = StorageBackendLocal
	}
	c.Backend = backend

	c.Root = strings.TrimSpace(c.Root)
	if c.Root == "" {
		c.Root = "./public"
	}

	c.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	if c.Backend == StorageBackendS3 && c.S3Endpoint == "" {
		// An S3 backend without an endpoint cannot work; fall back to disk.
		c.Backend = StorageBackendLocal
	}
}
