package profile

import (
	"errors"
	"testing"
)

func TestCacheLookupVisibility(t *testing.T) {
	c := NewCache()
	c.Put(Account{ID: 42, Name: "Hidden", Role: RoleUser}, true)
	c.Put(Account{ID: 43, Name: "Plain"}, false)

	if _, ok := c.Lookup(42, false); ok {
		t.Fatal("invisible account visible to non-moderator")
	}
	if p, ok := c.Lookup(42, true); !ok || p.Name != "Hidden" {
		t.Fatalf("moderator lookup = %+v/%v", p, ok)
	}
	if p, ok := c.Lookup(43, false); !ok || p.Name != "Plain" {
		t.Fatalf("plain lookup = %+v/%v", p, ok)
	}

	c.Remove(42)
	if _, ok := c.Lookup(42, true); ok {
		t.Fatal("removed account still resolvable")
	}
}

func TestStaticAuthenticator(t *testing.T) {
	auth := NewStaticAuthenticator(map[string]Account{
		"tok-a": {ID: 1, Name: "A", Role: RoleModerator},
	}, false)

	acct, err := auth.Authenticate(1, "tok-a")
	if err != nil || !acct.Role.Moderator() {
		t.Fatalf("authenticate = %+v, %v", acct, err)
	}
	if _, err := auth.Authenticate(2, "tok-a"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token bound to another account: %v", err)
	}
	if _, err := auth.Authenticate(2, "nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unknown token: %v", err)
	}
}

func TestStaticAuthenticatorOpenMode(t *testing.T) {
	auth := NewStaticAuthenticator(nil, true)
	acct, err := auth.Authenticate(7, "anything")
	if err != nil || acct.ID != 7 || acct.Role.Moderator() {
		t.Fatalf("open mode = %+v, %v", acct, err)
	}
}
