package minio

import "time"

const (
	connectionHealthCheckInterval = 3 * time.Second
	reconnectBackoff              = time.Second
)

// Config configures the MinIO snapshot store.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`

	// Prefix is prepended to every snapshot key, e.g. "sqlshim/".
	Prefix string `yaml:"prefix" envconfig:"MINIO_SNAPSHOT_PREFIX"`
}

// ConnectionConfig holds the MinIO server details.
type ConnectionConfig struct {
	// Endpoint is the server address without scheme, e.g. "localhost:9000".
	Endpoint        string `yaml:"endpoint" envconfig:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" envconfig:"MINIO_USE_SSL"`
	BucketName      string `yaml:"bucket_name" envconfig:"MINIO_BUCKET_NAME"`
	Region          string `yaml:"region" envconfig:"MINIO_REGION"`

	// AccessBucketCreation creates the bucket when it does not exist.
	AccessBucketCreation bool `yaml:"access_bucket_creation" envconfig:"MINIO_ACCESS_BUCKET_CREATION"`
}
