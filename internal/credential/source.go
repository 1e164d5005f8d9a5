// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/zalando/go-keyring"
)

const (
	DefaultService        = "fec-api"
	DefaultAccount        = "api-key"
	DefaultCommandTimeout = 30 * time.Second
)

// Source produces the credential. A Resolver consults it at most once per
// successful resolution.
type Source interface {
	Fetch(ctx context.Context) (Secret, error)
	// Describe names the source for diagnostics. It never includes secrets.
	Describe() string
}

// NewSource returns a CommandSource when command is set, otherwise a
// KeyringSource for service and account (defaults when empty).
func NewSource(service, account, command string, timeout time.Duration) Source {
	if strings.TrimSpace(command) != "" {
		return CommandSource{CommandLine: command, Timeout: timeout}
	}
	if service == "" {
		service = DefaultService
	}
	if account == "" {
		account = DefaultAccount
	}
	return KeyringSource{Service: service, Account: account}
}

// KeyringSource reads the credential from the OS keyring: Keychain on macOS,
// Credential Manager on Windows, Secret Service on Linux. The keyring may
// prompt the user to grant access.
type KeyringSource struct {
	Service string
	Account string
}

func (s KeyringSource) Describe() string {
	return fmt.Sprintf("system keyring (service %q, account %q)", s.Service, s.Account)
}

func (s KeyringSource) Fetch(ctx context.Context) (Secret, error) {
	if err := ctx.Err(); err != nil {
		return Secret{}, err
	}
	v, err := keyring.Get(s.Service, s.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return Secret{}, &CredentialNotFoundError{Service: s.Service, Account: s.Account}
	}
	if err != nil {
		return Secret{}, &KeyringError{Service: s.Service, Account: s.Account, Err: err}
	}
	if strings.TrimSpace(v) == "" {
		return Secret{}, &CredentialNotFoundError{Service: s.Service, Account: s.Account, Empty: true}
	}
	return NewSecret(v), nil
}

// CommandSource runs a shell command and uses its standard output, with
// trailing whitespace trimmed, as the credential. Standard error is discarded.
type CommandSource struct {
	CommandLine string
	Timeout     time.Duration
}

func (s CommandSource) Describe() string {
	return "credential command"
}

func (s CommandSource) Fetch(ctx context.Context) (Secret, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := shellCommand(ctx, s.CommandLine)
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Secret{}, &CredentialCommandError{ExitCode: -1, Reason: fmt.Sprintf("timed out after %s", timeout), Err: ctx.Err()}
	case ctx.Err() != nil:
		return Secret{}, &CredentialCommandError{ExitCode: -1, Reason: "canceled", Err: ctx.Err()}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Secret{}, &CredentialCommandError{ExitCode: exitErr.ExitCode(), Reason: "exited with non-zero status"}
	}
	if err != nil {
		return Secret{}, &CredentialCommandError{ExitCode: -1, Reason: "could not be started", Err: err}
	}

	v := strings.TrimRightFunc(stdout.String(), unicode.IsSpace)
	if v == "" {
		return Secret{}, &CredentialCommandError{ExitCode: 0, Reason: "produced no output"}
	}
	return NewSecret(v), nil
}

func shellCommand(ctx context.Context, line string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", line)
	}
	return exec.CommandContext(ctx, "sh", "-c", line)
}
