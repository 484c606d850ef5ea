package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Enabled toggles the object storage integration (pass snapshot archive).
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket holding catalog snapshots.
	Bucket string `mapstructure:"bucket" default:"filament-snapshots"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// SnapshotPrefix is the object key prefix for archived pass snapshots.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"snapshots"`
	// Retention is the number of archived snapshots to keep (0 keeps all).
	Retention int `mapstructure:"retention" default:"30"`
}
