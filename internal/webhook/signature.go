package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultSignatureTolerance is how far a signed timestamp may drift from
// the receiving clock before the delivery is rejected as stale.
const DefaultSignatureTolerance = 30 * time.Minute

var (
	// ErrMalformedHeader is returned when the signature header is missing
	// the timestamp or signature component.
	ErrMalformedHeader = errors.New("webhook: malformed signature header")

	// ErrExpiredSignature is returned when the signed timestamp is outside
	// the freshness tolerance.
	ErrExpiredSignature = errors.New("webhook: signature timestamp expired")

	// ErrSignatureMismatch is returned when the HMAC does not match the
	// request body.
	ErrSignatureMismatch = errors.New("webhook: signature mismatch")
)

// VerifySignature checks a provider signature header of the form
// "t=<unixSeconds>,v0=<hexHmac>" against the exact raw request body.
//
// The HMAC-SHA256 is computed over the string "<t>.<body>" with the shared
// secret and compared in constant time. The body must be the bytes as
// received, not a re-serialization. Pure: no logging, no side effects, and
// in particular neither the secret nor the computed digest ever leaves this
// function.
func VerifySignature(header, body, secret string, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		tolerance = DefaultSignatureTolerance
	}

	var timestamp, provided string
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "t="):
			timestamp = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v0="):
			provided = strings.TrimPrefix(part, "v0=")
		}
	}
	if timestamp == "" || provided == "" {
		return ErrMalformedHeader
	}

	signedAt, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrMalformedHeader)
	}
	drift := now.Unix() - signedAt
	if drift < 0 {
		drift = -drift
	}
	if drift > int64(tolerance.Seconds()) {
		return ErrExpiredSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(timestamp + "." + body))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return ErrSignatureMismatch
	}
	return nil
}
