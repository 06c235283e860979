package auth

import (
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Shared caches the token from src until it expires. Concurrent callers that
// find no valid token wait on a single acquisition instead of each running
// their own.
func Shared(src oauth2.TokenSource) oauth2.TokenSource {
	return &sharedSource{src: src}
}

type sharedSource struct {
	src   oauth2.TokenSource
	group singleflight.Group

	mu  sync.Mutex
	tok *oauth2.Token
}

func (s *sharedSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	if s.tok.Valid() {
		tok := s.tok
		s.mu.Unlock()
		return tok, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("token", func() (any, error) {
		s.mu.Lock()
		if s.tok.Valid() {
			tok := s.tok
			s.mu.Unlock()
			return tok, nil
		}
		s.mu.Unlock()

		tok, err := s.src.Token()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.tok = tok
		s.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}
