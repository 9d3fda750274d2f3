package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/cache"
)

func TestMemory_GetSet(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "key1", "value1", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key1 to be present")
	}
	if value != "value1" {
		t.Errorf("value = %q, want %q", value, "value1")
	}
}

func TestMemory_Get_Missing(t *testing.T) {
	c := cache.NewMemory()

	_, ok, err := c.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing key to report absent")
	}
}

func TestMemory_Set_Replaces(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	c.Set(ctx, "key1", "old", time.Minute)
	c.Set(ctx, "key1", "new", time.Minute)

	value, ok, _ := c.Get(ctx, "key1")
	if !ok || value != "new" {
		t.Errorf("Get = (%q, %v), want (new, true)", value, ok)
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	c.Set(ctx, "key1", "value1", 10*time.Millisecond)

	time.Sleep(25 * time.Millisecond)

	_, ok, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected expired key to behave as absent")
	}
}
