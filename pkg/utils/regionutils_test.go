package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRegion(t *testing.T) {
	assert.True(t, IsValidRegion("eu-west-1"))
	assert.True(t, IsValidRegion("ap-northeast-2"))
	assert.False(t, IsValidRegion("eu-west-9"))
	assert.False(t, IsValidRegion(""))
}

func TestGetDefaultRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	assert.Equal(t, "us-east-1", GetDefaultRegion())

	t.Setenv("AWS_DEFAULT_REGION", "eu-central-1")
	assert.Equal(t, "eu-central-1", GetDefaultRegion())

	t.Setenv("AWS_REGION", "ap-northeast-2")
	assert.Equal(t, "ap-northeast-2", GetDefaultRegion())
}
