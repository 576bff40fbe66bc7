package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	domainerrors "paysentry.backend/internal/domain/errors"
)

// DefaultSignatureTolerance is the maximum accepted clock skew between
// the signed timestamp and the verifier clock.
const DefaultSignatureTolerance = 5 * time.Minute

// EventHeader is the minimal envelope extracted after verification.
type EventHeader struct {
	ID      string
	Type    string
	Created null.Int64
}

// SignatureVerifier checks the Stripe-Signature header against the raw
// request body. The body must reach Verify byte-exact as received; any
// re-encoding between receipt and verification invalidates the digest.
type SignatureVerifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// NewSignatureVerifier creates a verifier for one endpoint signing secret
func NewSignatureVerifier(secret string, tolerance time.Duration) *SignatureVerifier {
	if tolerance <= 0 {
		tolerance = DefaultSignatureTolerance
	}
	return &SignatureVerifier{secret: secret, tolerance: tolerance, now: time.Now}
}

// SetNow overrides the clock (used for tolerance tests)
func (v *SignatureVerifier) SetNow(now func() time.Time) {
	v.now = now
}

// Verify checks the signature and returns the event header.
// Failure kinds: malformed header, timestamp outside tolerance, digest
// mismatch, malformed payload. All terminate the request before the
// dedupe store is touched.
func (v *SignatureVerifier) Verify(rawBody []byte, signatureHeader string) (*EventHeader, error) {
	timestamp, candidates, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}

	skew := v.now().Unix() - timestamp
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(v.tolerance/time.Second) {
		return nil, domainerrors.ErrSignatureTimestamp
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	matched := false
	for _, candidate := range candidates {
		decoded, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			matched = true
		}
	}
	if !matched {
		return nil, domainerrors.ErrSignatureMismatch
	}

	var envelope struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		Created *int64 `json:"created"`
	}
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, domainerrors.ErrMalformedPayload
	}
	if envelope.ID == "" || envelope.Type == "" {
		return nil, domainerrors.ErrMalformedPayload
	}

	header := &EventHeader{ID: envelope.ID, Type: envelope.Type}
	if envelope.Created != nil {
		header.Created = null.Int64From(*envelope.Created)
	}
	return header, nil
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>(,v1=<hex>)*". Unknown
// schemes are ignored; a missing t or missing v1 is malformed.
func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, domainerrors.ErrSignatureMalformed
	}

	var (
		timestamp  int64
		sawT       bool
		candidates []string
	)
	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			ts, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return 0, nil, domainerrors.ErrSignatureMalformed
			}
			timestamp = ts
			sawT = true
		case "v1":
			candidates = append(candidates, pair[1])
		}
	}
	if !sawT || len(candidates) == 0 {
		return 0, nil, domainerrors.ErrSignatureMalformed
	}
	return timestamp, candidates, nil
}
