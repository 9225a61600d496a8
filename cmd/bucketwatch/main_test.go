package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younsl/bucketwatch/internal/config"
	"github.com/younsl/bucketwatch/internal/models"
	"github.com/younsl/bucketwatch/pkg/minio"
)

func TestChannels(t *testing.T) {
	cfg := &config.Config{}
	assert.Empty(t, channels(cfg))

	cfg.Pushover = &config.PushoverConfig{User: "u", App: "a"}
	cfg.Email = &config.EmailConfig{To: []string{"ops@example.com"}, From: "bw@example.com"}

	chs := channels(cfg)
	require.Len(t, chs, 2)
	assert.Equal(t, "pushover", chs[0].Name())
	assert.Equal(t, "email", chs[1].Name())
}

func TestNewStore_MinIO(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)

	store, awsOpts, err := newStore(context.Background(), config.StorageConfig{
		Backend: config.BackendMinIO,
		Options: map[string]string{
			"backend":    "minio",
			"endpoint":   "http://127.0.0.1:9000",
			"access_key": "a",
			"secret_key": "b",
			"region":     "eu-west-1",
			"colour":     "blue",
		},
	}, log)
	require.NoError(t, err)

	assert.IsType(t, &minio.Client{}, store)
	assert.Equal(t, "eu-west-1", awsOpts.Region)
	assert.Contains(t, logs.String(), "colour")
}

func TestNewStore_InvalidOptions(t *testing.T) {
	_, _, err := newStore(context.Background(), config.StorageConfig{
		Backend: config.BackendMinIO,
		Options: map[string]string{"access_key": "a"},
	}, zerolog.Nop())
	assert.Error(t, err)

	_, _, err = newStore(context.Background(), config.StorageConfig{
		Backend: config.BackendAWS,
		Options: map[string]string{"page_size": "0x10"},
	}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSpinnerProgress(t *testing.T) {
	var out bytes.Buffer
	p := newSpinnerProgress(&out)

	// Stopping a spinner that never started must be safe
	p.Stop(nil)

	p.Start(2)
	p.Update(1, 2, models.BucketResult{Name: "a"})
	p.Update(2, 2, models.BucketResult{Name: "b"})
	p.Stop(&models.AuditReport{Passed: []models.BucketResult{{Name: "a"}, {Name: "b"}}})
}
