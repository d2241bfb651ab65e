package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name     string
		args     []string
		expected Config
	}{
		{
			name:     "database path flag",
			args:     []string{"cmd", "-d", "/tmp/test-vault.db"},
			expected: Config{DatabasePath: "/tmp/test-vault.db"},
		},
		{
			name:     "verbose flag",
			args:     []string{"cmd", "-v"},
			expected: Config{Verbose: true},
		},
		{
			name:     "no flags keeps existing values",
			args:     []string{"cmd"},
			expected: Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Equal(t, tt.expected, *config)
		})
	}
}
