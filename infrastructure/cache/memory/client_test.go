package memory

import (
	"context"
	"testing"
	"time"

	"plugindex-api/core/errors"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want %q", got, "value")
	}
}

func TestCache_GetMissing(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	_, err := c.Get(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("Get error = %v, want NotFoundError", err)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expired key should miss")
	}
}

func TestCache_Delete(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err == nil {
		t.Error("deleted key should miss")
	}
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("abc"), time.Minute)
	got, _ := c.Get(ctx, "k")
	got[0] = 'x'

	again, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Error("Get returned aliased cache state")
	}
}
