package session

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}
	first, err := h.Hash(PlainText("p1"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.Hash(PlainText("p1"))
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("Hashing the same password twice should use different salts")
	}
	if strings.Contains(first, "p1") {
		t.Fatal("Hash should not contain the plain text password")
	}
	for _, hash := range []string{first, second} {
		match, err := h.Compare(hash, PlainText("p1"))
		if err != nil {
			t.Fatal(err)
		} else if !match {
			t.Fatal("Password should match its own hash")
		}
	}
	match, err := h.Compare(first, PlainText("p2"))
	if err != nil {
		t.Fatal(err)
	} else if match {
		t.Fatal("Wrong password should not match")
	}
}

func TestHasherDefaultCost(t *testing.T) {
	hash, err := Hasher{}.Hash(PlainText("secret"))
	if err != nil {
		t.Fatal(err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatal(err)
	}
	if cost != MinCost {
		t.Fatalf("Default cost should be %v got %v", MinCost, cost)
	}
}

func TestHasherRejects(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}
	if _, err := h.Compare("not a bcrypt hash", PlainText("p1")); err == nil {
		t.Fatal("Comparing against an invalid hash should fail")
	}
	if _, err := h.Hash(PlainText(strings.Repeat("a", 73))); err != ErrPasswordTooLong {
		t.Fatalf("Error should be %v got %v", ErrPasswordTooLong, err)
	}
}

func TestZero(t *testing.T) {
	p := PlainText("secret")
	p.Zero()
	for _, b := range p {
		if b != 0 {
			t.Fatal("Zero should clear every byte")
		}
	}
}
