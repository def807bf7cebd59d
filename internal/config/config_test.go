package config

import (
	"testing"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		shouldSet    bool
		want         string
	}{
		{
			name:         "returns environment variable when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			shouldSet:    true,
			want:         "custom",
		},
		{
			name:         "returns default when environment variable not set",
			key:          "TEST_VAR_MISSING",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    false,
			want:         "default",
		},
		{
			name:         "returns default when environment variable is empty string",
			key:          "TEST_VAR_EMPTY",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    true,
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		shouldSet    bool
		want         int
	}{
		{
			name:         "parses integer value",
			key:          "TEST_INT",
			defaultValue: 1,
			envValue:     "42",
			shouldSet:    true,
			want:         42,
		},
		{
			name:         "returns default when unset",
			key:          "TEST_INT_MISSING",
			defaultValue: 7,
			shouldSet:    false,
			want:         7,
		},
		{
			name:         "returns default on malformed value",
			key:          "TEST_INT_BAD",
			defaultValue: 7,
			envValue:     "not-a-number",
			shouldSet:    true,
			want:         7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvAsInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAllowedUsers(t *testing.T) {
	t.Run("empty means no restriction", func(t *testing.T) {
		ids, err := parseAllowedUsers("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ids != nil {
			t.Errorf("expected nil, got %v", ids)
		}
	})

	t.Run("parses comma-separated ids", func(t *testing.T) {
		ids, err := parseAllowedUsers("123, 456,789")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(ids) != 3 || ids[0] != 123 || ids[1] != 456 || ids[2] != 789 {
			t.Errorf("unexpected ids: %v", ids)
		}
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		if _, err := parseAllowedUsers("123,abc"); err == nil {
			t.Error("expected error for malformed id")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("requires telegram token", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")

		if _, err := Load(); err == nil {
			t.Error("expected error when TELEGRAM_BOT_TOKEN is unset")
		}
	})

	t.Run("requires provider api key", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("EMBEDDING_PROVIDER", "voyage")
		t.Setenv("VOYAGE_API_KEY", "")

		if _, err := Load(); err == nil {
			t.Error("expected error when VOYAGE_API_KEY is unset")
		}
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("EMBEDDING_PROVIDER", "acme")

		if _, err := Load(); err == nil {
			t.Error("expected error for unsupported provider")
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("EMBEDDING_PROVIDER", "voyage")
		t.Setenv("VOYAGE_API_KEY", "vk")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.EmbeddingDimension != 1024 {
			t.Errorf("EmbeddingDimension = %d, want 1024", cfg.EmbeddingDimension)
		}

		if cfg.SearchBatchSize != 3 {
			t.Errorf("SearchBatchSize = %d, want 3", cfg.SearchBatchSize)
		}

		if cfg.SearchOverfetch != 12 {
			t.Errorf("SearchOverfetch = %d, want 12", cfg.SearchOverfetch)
		}

		if cfg.SimilarityThreshold != nil {
			t.Errorf("SimilarityThreshold = %v, want nil", *cfg.SimilarityThreshold)
		}
	})

	t.Run("overfetch must cover a batch", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("EMBEDDING_PROVIDER", "voyage")
		t.Setenv("VOYAGE_API_KEY", "vk")
		t.Setenv("SEARCH_BATCH_SIZE", "5")
		t.Setenv("SEARCH_OVERFETCH", "3")

		if _, err := Load(); err == nil {
			t.Error("expected error when SEARCH_OVERFETCH < SEARCH_BATCH_SIZE")
		}
	})

	t.Run("result max length must be positive", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("EMBEDDING_PROVIDER", "voyage")
		t.Setenv("VOYAGE_API_KEY", "vk")
		t.Setenv("RESULT_MAX_LENGTH", "0")

		if _, err := Load(); err == nil {
			t.Error("expected error when RESULT_MAX_LENGTH is not positive")
		}
	})
}
