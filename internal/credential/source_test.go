// SPDX-License-Identifier: Apache-2.0

package credential_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/fecmcp/fec-mcp/internal/credential"
)

func TestNewSource(t *testing.T) {
	src := credential.NewSource("", "", "", 0)
	assert.Equal(t, credential.KeyringSource{Service: credential.DefaultService, Account: credential.DefaultAccount}, src)

	src = credential.NewSource("svc", "acct", "pass show fec", time.Second)
	assert.Equal(t, credential.CommandSource{CommandLine: "pass show fec", Timeout: time.Second}, src)
	assert.NotContains(t, src.Describe(), "pass show")
}

func TestKeyringSource(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T)
		want    string
		wantErr func(t *testing.T, err error)
	}{
		{
			name:  "stored key",
			setup: func(t *testing.T) { require.NoError(t, keyring.Set("fec-api", "api-key", "from-keyring")) },
			want:  "from-keyring",
		},
		{
			name:  "missing entry",
			setup: func(t *testing.T) {},
			wantErr: func(t *testing.T, err error) {
				var target *credential.CredentialNotFoundError
				require.ErrorAs(t, err, &target)
				assert.False(t, target.Empty)
				assert.Contains(t, err.Error(), `service "fec-api"`)
			},
		},
		{
			name:  "empty entry",
			setup: func(t *testing.T) { require.NoError(t, keyring.Set("fec-api", "api-key", "  ")) },
			wantErr: func(t *testing.T, err error) {
				var target *credential.CredentialNotFoundError
				require.ErrorAs(t, err, &target)
				assert.True(t, target.Empty)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyring.MockInit()
			tt.setup(t)

			s, err := credential.KeyringSource{Service: "fec-api", Account: "api-key"}.Fetch(context.Background())
			if tt.wantErr != nil {
				tt.wantErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Reveal())
		})
	}
}

func TestKeyringSource_BackendFailure(t *testing.T) {
	backendErr := errors.New("dbus: no session bus")
	keyring.MockInitWithError(backendErr)
	t.Cleanup(keyring.MockInit)

	_, err := credential.KeyringSource{Service: "fec-api", Account: "api-key"}.Fetch(context.Background())
	var target *credential.KeyringError
	require.ErrorAs(t, err, &target)
	assert.ErrorIs(t, err, backendErr)
}

func TestKeyringSource_ResolvedThroughResolver(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set("fec-api", "api-key", "kr-secret"))

	r := credential.NewResolver(credential.NewSource("", "", "", 0))
	s, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kr-secret", s.Reveal())

	require.NoError(t, keyring.Delete("fec-api", "api-key"))
	s, err = r.Resolve(context.Background())
	require.NoError(t, err, "resolved key is cached for the life of the resolver")
	assert.Equal(t, "kr-secret", s.Reveal())
}

func TestCommandSource(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("commands use POSIX sh syntax")
	}

	tests := []struct {
		name    string
		command string
		timeout time.Duration
		want    string
		wantErr func(t *testing.T, err error)
	}{
		{
			name:    "trailing whitespace trimmed",
			command: `printf '  s3cr3t \n\n'`,
			want:    "  s3cr3t",
		},
		{
			name:    "stderr is never surfaced",
			command: `echo s3cr3t >&2; exit 3`,
			wantErr: func(t *testing.T, err error) {
				var target *credential.CredentialCommandError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 3, target.ExitCode)
				assert.NotContains(t, err.Error(), "s3cr3t")
			},
		},
		{
			name:    "stdout of a failing command is never surfaced",
			command: `echo s3cr3t; exit 1`,
			wantErr: func(t *testing.T, err error) {
				assert.NotContains(t, err.Error(), "s3cr3t")
				assert.Contains(t, err.Error(), "exit code 1")
			},
		},
		{
			name:    "empty output",
			command: `printf '\n'`,
			wantErr: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "produced no output")
			},
		},
		{
			name:    "timeout",
			command: `sleep 5`,
			timeout: 100 * time.Millisecond,
			wantErr: func(t *testing.T, err error) {
				var target *credential.CredentialCommandError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, -1, target.ExitCode)
				assert.Contains(t, err.Error(), "timed out")
				assert.ErrorIs(t, err, context.DeadlineExceeded)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := credential.CommandSource{CommandLine: tt.command, Timeout: tt.timeout}.Fetch(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Reveal())
		})
	}
}
