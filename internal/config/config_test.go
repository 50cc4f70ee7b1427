package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "a",
		"JWT_REFRESH_SECRET": "b",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "shop.db", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "products", cfg.Elastic.Index)
	assert.Nil(t, cfg.Brokers())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "a",
		"JWT_REFRESH_SECRET": "b",
		"SERVER_PORT":        "9000",
		"ACCESS_TOKEN_TTL":   "5m",
		"KAFKA_BROKERS":      "k1:9092, k2:9092,",
		"ADMIN_USERNAME":     "root",
		"ADMIN_PASSWORD":     "rootpass",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, "root", cfg.Admin.Username)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing secrets",
			env:  map[string]string{},
			want: "JWT_SECRET",
		},
		{
			name: "refresh shorter than access",
			env: map[string]string{
				"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b",
				"ACCESS_TOKEN_TTL": "2h", "REFRESH_TOKEN_TTL": "1h",
			},
			want: "REFRESH_TOKEN_TTL",
		},
		{
			name: "half configured admin",
			env: map[string]string{
				"JWT_SECRET": "a", "JWT_REFRESH_SECRET": "b",
				"ADMIN_USERNAME": "root",
			},
			want: "ADMIN_PASSWORD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
