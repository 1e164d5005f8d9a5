// SPDX-License-Identifier: Apache-2.0

package credential

import "fmt"

// CredentialNotFoundError reports that the keyring holds no usable secret.
type CredentialNotFoundError struct {
	Service string
	Account string
	// Empty is set when an entry exists but holds an empty value.
	Empty bool
}

func (e *CredentialNotFoundError) Error() string {
	what := "not found"
	if e.Empty {
		what = "is empty"
	}
	return fmt.Sprintf("FEC API key %s in system keyring (service %q, account %q). "+
		"Store it with `secret-tool store --label=%q service %s username %s` on Linux, "+
		"`security add-generic-password -s %s -a %s -w` on macOS, "+
		"or pass --credential-cmd with a command that prints the key",
		what, e.Service, e.Account,
		"FEC API key", e.Service, e.Account,
		e.Service, e.Account)
}

// KeyringError reports a keyring backend failure other than a missing entry.
type KeyringError struct {
	Service string
	Account string
	Err     error
}

func (e *KeyringError) Error() string {
	return fmt.Sprintf("keyring access failed (service %q, account %q): %v", e.Service, e.Account, e.Err)
}

func (e *KeyringError) Unwrap() error { return e.Err }

// CredentialCommandError reports a failed credential command. It never
// carries the command's output.
type CredentialCommandError struct {
	// ExitCode is -1 when the command did not exit normally.
	ExitCode int
	Reason   string
	Err      error
}

func (e *CredentialCommandError) Error() string {
	return fmt.Sprintf("credential command failed (exit code %d): %s", e.ExitCode, e.Reason)
}

func (e *CredentialCommandError) Unwrap() error { return e.Err }
