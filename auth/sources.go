// Package auth provides bearer-token sources for the Vertex AI backend.
//
// Default tries the GCE metadata server first and the local gcloud CLI
// second, caching whichever token it gets until shortly before expiry.
package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// MetadataTimeout bounds one metadata-server token request.
	MetadataTimeout = 10 * time.Second

	// gcloud prints tokens without expiry; they live for an hour.
	commandTokenLifetime = 45 * time.Minute
)

// Default returns the shared token source used when none is configured.
func Default() oauth2.TokenSource {
	return Shared(Fallback(Metadata(), Gcloud()))
}

// Metadata fetches the default service account's token from the metadata
// server of the machine the process runs on. The host honours
// GCE_METADATA_HOST.
func Metadata() oauth2.TokenSource {
	return WithTimeout(google.ComputeTokenSource(""), MetadataTimeout)
}

// Gcloud runs "gcloud auth print-access-token".
func Gcloud() oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &CommandTokenSource{
		Name: "gcloud",
		Args: []string{"auth", "print-access-token"},
	})
}

// Static always returns token. It is meant for tests and for tokens minted
// elsewhere.
func Static(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// CommandTokenSource runs an external command and uses its trimmed standard
// output as the access token.
type CommandTokenSource struct {
	Name string
	Args []string
	// Lifetime is how long a printed token is trusted; zero means 45m.
	Lifetime time.Duration
	Timeout  time.Duration
}

func (s *CommandTokenSource) Token() (*oauth2.Token, error) {
	ctx := context.Background()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Name, s.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", s.Name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", s.Name, err)
	}

	token := strings.TrimSpace(stdout.String())
	if token == "" {
		return nil, fmt.Errorf("%s printed no token", s.Name)
	}
	lifetime := s.Lifetime
	if lifetime <= 0 {
		lifetime = commandTokenLifetime
	}
	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(lifetime),
	}, nil
}

// Fallback tries each source in order and returns the first token obtained.
// When every source fails the errors are joined.
func Fallback(sources ...oauth2.TokenSource) oauth2.TokenSource {
	return fallbackSource(sources)
}

type fallbackSource []oauth2.TokenSource

func (f fallbackSource) Token() (*oauth2.Token, error) {
	if len(f) == 0 {
		return nil, errors.New("no token sources configured")
	}
	var errs []error
	for _, src := range f {
		tok, err := src.Token()
		if err == nil {
			return tok, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// WithTimeout fails a Token call that takes longer than d. The abandoned call
// finishes in the background.
func WithTimeout(src oauth2.TokenSource, d time.Duration) oauth2.TokenSource {
	return &timeoutSource{src: src, timeout: d}
}

type timeoutSource struct {
	src     oauth2.TokenSource
	timeout time.Duration
}

type tokenResult struct {
	tok *oauth2.Token
	err error
}

func (s *timeoutSource) Token() (*oauth2.Token, error) {
	done := make(chan tokenResult, 1)
	go func() {
		tok, err := s.src.Token()
		done <- tokenResult{tok, err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.tok, r.err
	case <-timer.C:
		return nil, fmt.Errorf("token request timed out after %s", s.timeout)
	}
}
