package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"windfall/domain"

	log "github.com/sirupsen/logrus"
)

const verifyTimeout = 5 * time.Second

// Verifier checks captcha response tokens against a siteverify endpoint. It
// fails closed: a provider outage or malformed reply rejects the claim rather
// than letting it through unverified.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// New creates a captcha verifier. An empty secret disables verification, which
// is the expected setup for local development.
func New(secret, verifyURL string) *Verifier {
	if secret == "" {
		log.Warn("Captcha secret not configured, accepting all claims without verification")
	}
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: verifyTimeout},
	}
}

// verifyResponse is the siteverify reply shape shared by hCaptcha and
// reCAPTCHA.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the token with the captcha provider
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if v.secret == "" {
		return nil
	}

	if token == "" {
		return domain.ValidationError{Field: "captcha", Reason: "token is required"}
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build captcha verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Captcha verification request failed")
		return domain.ValidationError{Field: "captcha", Reason: "verification unavailable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("Captcha provider returned unexpected status")
		return domain.ValidationError{Field: "captcha", Reason: "verification unavailable"}
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.WithError(err).Warn("Captcha provider returned malformed response")
		return domain.ValidationError{Field: "captcha", Reason: "verification unavailable"}
	}

	if !result.Success {
		log.WithField("error_codes", result.ErrorCodes).Debug("Captcha token rejected")
		return domain.ValidationError{Field: "captcha", Reason: "verification failed"}
	}

	return nil
}
