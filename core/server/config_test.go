package server_test

import (
	"testing"
	"time"

	"abscomp/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Addr())
}

func TestConfig_CacheTTL(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"Default", 300, 5 * time.Minute},
		{"Disabled", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{CacheTTLSeconds: tt.seconds}
			assert.Equal(t, tt.want, c.CacheTTL())
		})
	}
}
