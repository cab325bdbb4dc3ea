package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/empowerverse/feedkit/core"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStore_BatchGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if !reflect.DeepEqual(got, kvs) {
		t.Errorf("BatchGet() = %v, want %v", got, kvs)
	}
}

func TestMemoryStore_ZRangeDescending(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.ZAdd(ctx, "board", 1.0, "low")
	s.ZAdd(ctx, "board", 3.0, "high")
	s.ZAdd(ctx, "board", 2.0, "mid")

	got, err := s.ZRange(ctx, "board", 0, 2)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ZRange() = %v, want %v", got, want)
	}

	top, err := s.ZRange(ctx, "board", 0, 0)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if !reflect.DeepEqual(top, []string{"high"}) {
		t.Errorf("ZRange(0,0) = %v, want [high]", top)
	}
}

func TestMemoryStore_DeleteClearsAllKeyTypes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	s.Set(ctx, "k", []byte("v"))
	s.ZAdd(ctx, "k", 1.0, "member")
	s.HSet(ctx, "k", "f", []byte("v"))

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := s.Get(ctx, "k"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrStoreNotFound", err)
	}
	// DEL 语义：有序集合与哈希一并清除
	members, err := s.ZRange(ctx, "k", 0, 10)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if len(members) != 0 {
		t.Errorf("ZRange() after delete = %v, want empty", members)
	}
	if _, err := s.HGet(ctx, "k", "f"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("HGet() after delete error = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.HSet(ctx, "h", "f", []byte("v")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	got, err := s.HGet(ctx, "h", "f")
	if err != nil {
		t.Fatalf("HGet() error = %v", err)
	}
	if string(got) != "v" {
		t.Errorf("HGet() = %q, want %q", got, "v")
	}

	all, err := s.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("HGetAll() error = %v", err)
	}
	if len(all) != 1 || string(all["f"]) != "v" {
		t.Errorf("HGetAll() = %v", all)
	}
}

func TestMemoryCatalog_Lookup(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog()
	c.AddUser(&core.User{ID: 1, Username: "Alice"})
	c.AddPost(&core.Post{ID: 10, Title: "hello"})

	user, err := c.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("UserByUsername() error = %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user.ID = %d, want 1", user.ID)
	}

	if _, err := c.UserByUsername(ctx, "nobody"); !core.IsNotFound(err) {
		t.Errorf("UserByUsername(nobody) error = %v, want NOT_FOUND", err)
	}

	post, err := c.PostByID(ctx, 10)
	if err != nil {
		t.Fatalf("PostByID() error = %v", err)
	}
	if post.Title != "hello" {
		t.Errorf("post.Title = %q", post.Title)
	}
}
