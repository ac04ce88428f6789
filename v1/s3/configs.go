package s3

// Config configures the S3 snapshot store. Empty credentials fall back to the
// default AWS credential chain (environment, shared config, instance role).
type Config struct {
	Bucket string `yaml:"bucket" envconfig:"S3_BUCKET"`

	// Prefix is prepended to every snapshot key, e.g. "sqlshim/".
	Prefix string `yaml:"prefix" envconfig:"S3_PREFIX"`

	Region    string `yaml:"region" envconfig:"S3_REGION"`
	AccessKey string `yaml:"access_key" envconfig:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"S3_SECRET_KEY"`

	// Endpoint selects an S3-compatible service and switches to path-style addressing.
	Endpoint string `yaml:"endpoint" envconfig:"S3_ENDPOINT"`
}
