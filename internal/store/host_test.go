package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/rsvp/internal/apperr"
)

func TestHostCreate(t *testing.T) {
	hs := NewHostStore(setupTestDB(t))
	ctx := context.Background()

	h, err := hs.Create(ctx, "host@example.com", "abc123")
	if err != nil {
		t.Fatalf("create host: %v", err)
	}
	if h.Email != "host@example.com" {
		t.Errorf("email = %q, want %q", h.Email, "host@example.com")
	}
	if h.Token != "abc123" {
		t.Errorf("token = %q, want %q", h.Token, "abc123")
	}
	if h.TokenUsed {
		t.Error("new token should be unused")
	}
	if h.SentViaEtsy || h.SentAt != nil {
		t.Error("new token should not be marked sent")
	}
}

func TestHostCreateDuplicate(t *testing.T) {
	hs := NewHostStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := hs.Create(ctx, "host@example.com", "one"); err != nil {
		t.Fatalf("create host: %v", err)
	}
	_, err := hs.Create(ctx, "host@example.com", "two")
	if !errors.Is(err, apperr.ErrDuplicateToken) {
		t.Fatalf("err = %v, want ErrDuplicateToken", err)
	}
}

func TestHostGetByEmailNotFound(t *testing.T) {
	hs := NewHostStore(setupTestDB(t))

	h, err := hs.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if h != nil {
		t.Errorf("expected nil, got %+v", h)
	}
}

func TestHostRedeemOnce(t *testing.T) {
	hs := NewHostStore(setupTestDB(t))
	ctx := context.Background()
	hs.Create(ctx, "host@example.com", "abc123")

	ok, err := hs.Redeem(ctx, "host@example.com", "wrong")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if ok {
		t.Error("wrong token should not redeem")
	}

	ok, err = hs.Redeem(ctx, "host@example.com", "abc123")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !ok {
		t.Fatal("correct token should redeem")
	}

	ok, err = hs.Redeem(ctx, "host@example.com", "abc123")
	if err != nil {
		t.Fatalf("redeem again: %v", err)
	}
	if ok {
		t.Error("token redeemed twice")
	}

	h, _ := hs.GetByEmail(ctx, "host@example.com")
	if !h.TokenUsed {
		t.Error("token_used = false, want true")
	}
	if h.UsedAt == nil {
		t.Error("used_at not set")
	}
}

func TestHostListAndMarkSent(t *testing.T) {
	hs := NewHostStore(setupTestDB(t))
	ctx := context.Background()
	first, _ := hs.Create(ctx, "a@example.com", "t1")
	hs.Create(ctx, "b@example.com", "t2")

	hosts, err := hs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(hosts) != 2 {
		t.Fatalf("len = %d, want 2", len(hosts))
	}
	if hosts[0].Email != "b@example.com" {
		t.Errorf("first = %q, want newest first", hosts[0].Email)
	}

	h, err := hs.MarkSent(ctx, first.ID)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if !h.SentViaEtsy || h.SentAt == nil {
		t.Errorf("host not marked sent: %+v", h)
	}

	h, err = hs.MarkSent(ctx, 9999)
	if err != nil {
		t.Fatalf("mark sent missing: %v", err)
	}
	if h != nil {
		t.Errorf("expected nil for missing host, got %+v", h)
	}
}
