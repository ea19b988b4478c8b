package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURLValidator(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"default api", "https://test-fe.mysellerpintar.com/api", "https://test-fe.mysellerpintar.com/api", false},
		{"trailing slash", "https://api.test/v1/", "https://api.test/v1", false},
		{"adds scheme", "api.test/api", "https://api.test/api", false},
		{"localhost allowed", "http://127.0.0.1:8080", "http://127.0.0.1:8080", false},
		{"trims space", "  https://api.test  ", "https://api.test", false},
		{"empty", "", "", true},
		{"ftp", "ftp://api.test", "", true},
		{"query", "https://api.test/api?x=1", "", true},
		{"fragment", "https://api.test/api#top", "", true},
		{"credentials", "https://u:p@api.test", "", true},
		{"quote", "https://api.test/\"", "", true},
	}

	v := NewBaseURLValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndNormalize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrictBaseURLValidator(t *testing.T) {
	v := NewStrictBaseURLValidator()

	_, err := v.ValidateAndNormalize("http://localhost:3000")
	assert.Error(t, err)

	_, err = v.ValidateAndNormalize("http://api.test")
	assert.Error(t, err)

	got, err := v.ValidateAndNormalize("https://api.test/api/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.test/api", got)
}
