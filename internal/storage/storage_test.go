package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mg3/promag-api/config"
)

func TestOpenDisabled(t *testing.T) {
	for _, backend := range []string{"", "none", " NONE "} {
		store, err := Open(context.Background(), config.StorageConfig{Backend: backend})
		require.NoError(t, err)
		assert.Nil(t, store)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "s3fs"})
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestMinioConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinioConfig
		want string
	}{
		{name: "endpoint", cfg: config.MinioConfig{}, want: "minio endpoint is required"},
		{name: "keys", cfg: config.MinioConfig{Endpoint: "localhost:9000"}, want: "minio access key and secret key are required"},
		{name: "bucket", cfg: config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, want: "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinioClient(tt.cfg)
			assert.EqualError(t, err, tt.want)
		})
	}

	client, err := NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "promag"})
	require.NoError(t, err)
	assert.Equal(t, "promag", client.Bucket())
}

func TestGCSRequiresBucket(t *testing.T) {
	_, err := NewGCSClient(context.Background(), config.GCSConfig{})
	assert.EqualError(t, err, "gcs bucket is required")
}
