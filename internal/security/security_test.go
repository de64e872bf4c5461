package security_test

import (
	"strings"
	"testing"

	"github.com/msomdec/hbnb/internal/domain"
	"github.com/msomdec/hbnb/internal/security"
)

var (
	_ domain.PasswordHasher = (*security.BcryptHasher)(nil)
	_ domain.PasswordHasher = (*security.Argon2Hasher)(nil)
)

func fastArgon2() security.Argon2Params {
	p := security.DefaultArgon2Params()
	p.Memory = 1024
	p.Iterations = 1
	p.Parallelism = 1
	return p
}

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]domain.PasswordHasher{
		"bcrypt": security.NewBcryptHasher(4),
		"argon2": security.NewArgon2Hasher(fastArgon2()),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct horse")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if hash == "correct horse" || strings.Contains(hash, "correct horse") {
				t.Fatal("hash must not contain the plaintext password")
			}
			if !h.Verify("correct horse", hash) {
				t.Fatal("expected Verify to accept the original password")
			}
			if h.Verify("battery staple", hash) {
				t.Fatal("expected Verify to reject a different password")
			}
		})
	}
}

func TestHashers_SaltedHashesDiffer(t *testing.T) {
	h := security.NewArgon2Hasher(fastArgon2())
	a, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("expected two hashes of the same password to differ")
	}
}

func TestArgon2Hasher_RejectsMalformedHash(t *testing.T) {
	h := security.NewArgon2Hasher(fastArgon2())
	for _, encoded := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$AA$AA", "$argon2id$v=1$m=1,t=1,p=1$AA$AA"} {
		if h.Verify("x", encoded) {
			t.Fatalf("expected Verify to reject %q", encoded)
		}
	}
}

func TestArgon2Hasher_RejectsOutOfRangeParams(t *testing.T) {
	h := security.NewArgon2Hasher(fastArgon2())
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.Contains(hash, "$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected params in %q", hash)
	}

	for _, params := range []string{
		"m=4294967295,t=1,p=1",
		"m=1024,t=4294967295,p=1",
		"m=1024,t=1,p=255",
		"m=0,t=1,p=1",
		"m=1024,t=0,p=1",
		"m=1024,t=1,p=0",
	} {
		tampered := strings.Replace(hash, "m=1024,t=1,p=1", params, 1)
		if h.Verify("secret1", tampered) {
			t.Fatalf("expected Verify to reject %s", params)
		}
	}
	if !h.Verify("secret1", hash) {
		t.Fatal("untampered hash rejected")
	}
}

func TestBcryptHasher_OutOfRangeCostFallsBack(t *testing.T) {
	h := security.NewBcryptHasher(99)
	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.Verify("password123", hash) {
		t.Fatal("expected Verify to accept the password")
	}
}
