package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"orbit-relay/internal/profile"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// GetAccountByToken resolves a login token to its account.
func (s *Store) GetAccountByToken(ctx context.Context, token string) (profile.Account, error) {
	var (
		acct profile.Account
		role int16
		cube int16
		c1   int16
		c2   int16
	)
	err := s.Pool.QueryRow(ctx,
		`SELECT account_id, name, cube, color1, color2, role
		   FROM accounts WHERE token_hash = $1`,
		HashToken(token),
	).Scan(&acct.ID, &acct.Name, &cube, &c1, &c2, &role)
	if err != nil {
		return profile.Account{}, mapNotFound(err)
	}
	acct.Cube = uint16(cube)
	acct.Color1 = uint8(c1)
	acct.Color2 = uint8(c2)
	acct.Role = profile.Role(role)
	return acct, nil
}

// UpsertAccount registers or refreshes an account and its token.
func (s *Store) UpsertAccount(ctx context.Context, acct profile.Account, token string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO accounts (account_id, name, token_hash, cube, color1, color2, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (account_id) DO UPDATE SET
			name = EXCLUDED.name,
			token_hash = EXCLUDED.token_hash,
			cube = EXCLUDED.cube,
			color1 = EXCLUDED.color1,
			color2 = EXCLUDED.color2,
			role = EXCLUDED.role`,
		acct.ID, acct.Name, HashToken(token),
		int16(acct.Cube), int16(acct.Color1), int16(acct.Color2), int16(acct.Role),
	)
	return err
}

// Authenticator adapts the store to the relay's login check.
type Authenticator struct {
	store   *Store
	timeout time.Duration
}

func NewAuthenticator(s *Store) *Authenticator {
	return &Authenticator{store: s, timeout: 3 * time.Second}
}

// Authenticate looks the token up and verifies it belongs to the claimed
// account id.
func (a *Authenticator) Authenticate(accountID int32, token string) (profile.Account, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	acct, err := a.store.GetAccountByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return profile.Account{}, profile.ErrInvalidToken
		}
		return profile.Account{}, err
	}
	if acct.ID != accountID {
		return profile.Account{}, profile.ErrInvalidToken
	}
	return acct, nil
}
