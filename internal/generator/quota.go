package generator

import (
	"errors"
	"strings"
)

// ErrQuotaExceeded marks a backend error caused by quota or rate-limit
// exhaustion. Retrying cannot fix this condition, so a refinement session
// must abort immediately instead of burning its remaining attempts.
var ErrQuotaExceeded = errors.New("generator quota exceeded")

// quotaVocabulary are the message fragments that identify quota and
// rate-limit failures across backends (HTTP 429, Google "resource
// exhausted", OpenAI billing errors).
var quotaVocabulary = []string{
	"quota",
	"rate limit",
	"rate_limit",
	"429",
	"resource exhausted",
	"resource_exhausted",
	"billing",
	"too many requests",
}

// IsQuotaError reports whether err is a non-retryable quota or rate-limit
// failure, either by wrapping ErrQuotaExceeded or by message vocabulary.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, word := range quotaVocabulary {
		if strings.Contains(msg, word) {
			return true
		}
	}
	return false
}

// classify wraps quota-vocabulary errors with ErrQuotaExceeded so callers
// can check errors.Is without re-scanning the message.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrQuotaExceeded) && IsQuotaError(err) {
		return errors.Join(ErrQuotaExceeded, err)
	}
	return err
}
