package store_test

import (
	"context"
	"errors"
	"testing"

	"orbit-relay/internal/profile"
	"orbit-relay/internal/store"
	"orbit-relay/internal/testutil"
)

func TestAccountRoundTrip(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	acct := profile.Account{ID: 100, Name: "alice", Cube: 12, Color1: 3, Color2: 7, Role: profile.RoleModerator}
	if err := st.UpsertAccount(ctx, acct, "tok-alice"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := st.GetAccountByToken(ctx, "tok-alice")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != acct {
		t.Fatalf("got %+v, want %+v", got, acct)
	}

	if _, err := st.GetAccountByToken(ctx, "wrong"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown token err = %v, want ErrNotFound", err)
	}

	// Upsert with a new token rotates it; the old token stops working.
	if err := st.UpsertAccount(ctx, acct, "tok-alice-2"); err != nil {
		t.Fatalf("rotate token: %v", err)
	}
	if _, err := st.GetAccountByToken(ctx, "tok-alice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("old token err = %v, want ErrNotFound", err)
	}
}

func TestAuthenticator(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	acct := profile.Account{ID: 200, Name: "bob"}
	if err := st.UpsertAccount(ctx, acct, "tok-bob"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	auth := store.NewAuthenticator(st)
	got, err := auth.Authenticate(200, "tok-bob")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.Name != "bob" {
		t.Fatalf("account = %+v", got)
	}

	if _, err := auth.Authenticate(200, "nope"); !errors.Is(err, profile.ErrInvalidToken) {
		t.Fatalf("bad token err = %v, want ErrInvalidToken", err)
	}
	// A valid token presented with someone else's account id fails.
	if _, err := auth.Authenticate(201, "tok-bob"); !errors.Is(err, profile.ErrInvalidToken) {
		t.Fatalf("id mismatch err = %v, want ErrInvalidToken", err)
	}
}
