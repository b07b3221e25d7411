package storage

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "exports/a.xlsx", "https://cdn.example.com/exports/a.xlsx"},
		{"https://cdn.example.com/", "/exports/a.xlsx", "https://cdn.example.com/exports/a.xlsx"},
		{"https://cdn.example.com/files", "exports/a.xlsx", "https://cdn.example.com/files/exports/a.xlsx"},
		{"https://cdn.example.com/files/", "exports/a.xlsx", "https://cdn.example.com/files/exports/a.xlsx"},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, PublicURL(base, tt.key), tt.base+" + "+tt.key)
	}
	assert.Empty(t, PublicURL(nil, "a"))
}

func TestExportKey(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	key := ExportKey(12, at)

	assert.True(t, strings.HasPrefix(key, "exports/standings/12/20261018T093000Z-"), key)
	assert.True(t, strings.HasSuffix(key, ".xlsx"))
	assert.NotEqual(t, key, ExportKey(12, at))
}

func TestConfigCompleteness(t *testing.T) {
	full := CloudflareR2UploaderConfig{AccountID: "a", AccessKeyID: "k", SecretAccessKey: "s", BucketName: "b", PublicBaseURL: "https://x"}
	assert.True(t, full.Configured())
	assert.False(t, full.Partial())

	partial := full
	partial.BucketName = ""
	assert.False(t, partial.Configured())
	assert.True(t, partial.Partial())

	var empty CloudflareR2UploaderConfig
	assert.False(t, empty.Configured())
	assert.False(t, empty.Partial())
}
