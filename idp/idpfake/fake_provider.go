package idpfake

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/lexora/lexora-server/idp"
	"golang.org/x/oauth2"
)

var _ idp.IdentityProvider = (*FakeProvider)(nil)

// FakeProvider maps authorization codes to profiles. Exchange fails for
// unknown codes and FetchProfile returns ProfileErr when it is set.
type FakeProvider struct {
	mu         sync.Mutex
	profiles   map[string]*idp.Profile
	ProfileErr error
	Exchanges  int
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{profiles: make(map[string]*idp.Profile)}
}

// AddCode registers code as exchangeable for profile.
func (f *FakeProvider) AddCode(code string, profile *idp.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[code] = profile
}

func (f *FakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + url.QueryEscape(state)
}

func (f *FakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Exchanges++

	if _, ok := f.profiles[code]; !ok {
		return nil, errors.New("invalid_grant")
	}
	return &oauth2.Token{AccessToken: code, TokenType: "Bearer"}, nil
}

func (f *FakeProvider) FetchProfile(_ context.Context, token *oauth2.Token) (*idp.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	profile, ok := f.profiles[token.AccessToken]
	if !ok {
		return nil, errors.New("unknown token")
	}
	copied := *profile
	return &copied, nil
}
