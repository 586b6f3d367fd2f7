package password_test

import (
	"testing"

	"github.com/gefest173/meteora/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !password.Verify("pw123", hash) {
		t.Error("correct password did not verify")
	}
	if password.Verify("pw124", hash) {
		t.Error("wrong password verified")
	}
}

func TestHash_Salted(t *testing.T) {
	h1, err := password.Hash("same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := password.Hash("same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same input are identical, salt missing")
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	if password.Verify("pw123", "not-a-bcrypt-hash") {
		t.Error("garbage hash verified")
	}
}
