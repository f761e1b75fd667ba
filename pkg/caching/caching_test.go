package caching

import (
	"bytes"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	url := "https://www.retrosium.org/vault/101"
	body := []byte("<html>detail</html>")

	if _, ok := c.Get(url); ok {
		t.Fatal("Get() before Set() must miss")
	}
	if err := c.Set(url, body); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(url)
	if !ok {
		t.Fatal("Get() after Set() must hit")
	}
	if !bytes.Equal(got, body) {
		t.Errorf("Get() = %q, want %q", got, body)
	}
}

func TestCache_DistinctURLs(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	_ = c.Set("https://www.retrosium.org/vault/1", []byte("one"))
	_ = c.Set("https://www.retrosium.org/vault/2", []byte("two"))

	got, ok := c.Get("https://www.retrosium.org/vault/2")
	if !ok || string(got) != "two" {
		t.Errorf("Get() = %q, %v, want \"two\"", got, ok)
	}
}

func TestCache_ZeroMaxAgeAlwaysMisses(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	url := "https://www.retrosium.org/vault/101"
	_ = c.Set(url, []byte("body"))

	if _, ok := c.Get(url); ok {
		t.Error("Get() with zero max age must miss")
	}
}
