package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasherCost(t *testing.T) {
	cases := map[int]int{
		0:                      bcrypt.DefaultCost,
		bcrypt.DefaultCost + 2: bcrypt.DefaultCost + 2,
		1:                      bcrypt.MinCost,
		bcrypt.MaxCost + 5:     bcrypt.MaxCost,
	}
	for in, want := range cases {
		if got := NewBcryptHasher(in).cost; got != want {
			t.Fatalf("NewBcryptHasher(%d).cost = %d, want %d", in, got, want)
		}
	}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if err := hasher.Compare(hash, "secret"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := hasher.Compare("not-a-hash", "secret"); err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected malformed hash error, got %v", err)
	}
}

func TestBcryptHasher_HashErrors(t *testing.T) {
	hasher := &BcryptHasher{cost: bcrypt.MaxCost + 1}
	if _, err := hasher.Hash("password"); err == nil {
		t.Fatal("expected hash error for invalid cost")
	}

	long := strings.Repeat("x", MaxPasswordBytes+1)
	if _, err := NewBcryptHasher(bcrypt.MinCost).Hash(long); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected too long error, got %v", err)
	}
}
