package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAllowed(t *testing.T) {
	t.Run("empty allowlist admits everyone", func(t *testing.T) {
		b := New(Params{})

		assert.True(t, b.userAllowed(123))
	})

	t.Run("allowlist admits only listed users", func(t *testing.T) {
		b := New(Params{AllowedUsers: []int64{1, 2}})

		assert.True(t, b.userAllowed(1))
		assert.True(t, b.userAllowed(2))
		assert.False(t, b.userAllowed(3))
	})
}

func TestAudioExtension(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"audio/mpeg", ".mpeg"},
		{"audio/ogg", ".ogg"},
		{"", ".mp3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, audioExtension(tt.mimeType))
	}
}
