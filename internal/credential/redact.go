// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var apiKeyParam = regexp.MustCompile(`(?i)(api_key=)[^&\s"']+`)

// Redactor scrubs known secrets and api_key query parameters from text bound
// for logs, errors and tool results. A nil Redactor still scrubs api_key
// parameters.
type Redactor struct {
	mu      sync.RWMutex
	secrets []string
}

func NewRedactor() *Redactor {
	return &Redactor{}
}

// Add registers a secret for redaction.
func (r *Redactor) Add(s Secret) {
	if r == nil || s.IsZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, known := range r.secrets {
		if known == s.value {
			return
		}
	}
	r.secrets = append(r.secrets, s.value)
}

// Redact replaces every registered secret and api_key parameter value.
func (r *Redactor) Redact(text string) string {
	if r != nil {
		r.mu.RLock()
		for _, s := range r.secrets {
			text = strings.ReplaceAll(text, s, redacted)
		}
		r.mu.RUnlock()
	}
	return apiKeyParam.ReplaceAllString(text, "${1}"+redacted)
}

// Error wraps err so its message is redacted. errors.Is and errors.As still
// reach the original chain.
func (r *Redactor) Error(err error) error {
	if err == nil {
		return nil
	}
	return &redactedError{msg: r.Redact(err.Error()), err: err}
}

// ErrorField is a redacted zap.Error.
func (r *Redactor) ErrorField(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", r.Redact(err.Error()))
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
