package profile

import (
	"errors"
	"strconv"
	"sync"
)

var ErrInvalidToken = errors.New("invalid_token")

// StaticAuthenticator validates logins against a fixed token table. It backs
// deployments without a Postgres store, and tests.
type StaticAuthenticator struct {
	mu       sync.RWMutex
	byToken  map[string]Account
	fallback bool
}

// NewStaticAuthenticator builds an authenticator from token -> account.
// When open is true, unknown tokens are admitted as plain users with the
// account id they claim; this is the no-auth development mode.
func NewStaticAuthenticator(accounts map[string]Account, open bool) *StaticAuthenticator {
	byToken := make(map[string]Account, len(accounts))
	for token, acct := range accounts {
		byToken[token] = acct
	}
	return &StaticAuthenticator{byToken: byToken, fallback: open}
}

func (a *StaticAuthenticator) Authenticate(accountID int32, token string) (Account, error) {
	a.mu.RLock()
	acct, ok := a.byToken[token]
	a.mu.RUnlock()
	if ok {
		if acct.ID != accountID {
			return Account{}, ErrInvalidToken
		}
		return acct, nil
	}
	if a.fallback {
		return Account{ID: accountID, Name: "Player" + strconv.Itoa(int(accountID))}, nil
	}
	return Account{}, ErrInvalidToken
}

// Register adds or replaces a token at runtime.
func (a *StaticAuthenticator) Register(token string, acct Account) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byToken[token] = acct
}
