package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mutableJWKS serves a swappable JWKS document and counts fetches.
type mutableJWKS struct {
	mu      sync.Mutex
	doc     []byte
	fetches int32
	srv     *httptest.Server
}

func newMutableJWKS(t *testing.T, keys map[string]*rsa.PrivateKey) *mutableJWKS {
	t.Helper()
	m := &mutableJWKS{doc: jwksJSON(t, keys)}
	m.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.fetches, 1)
		m.mu.Lock()
		doc := m.doc
		m.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	}))
	t.Cleanup(m.srv.Close)
	return m
}

func (m *mutableJWKS) swap(t *testing.T, keys map[string]*rsa.PrivateKey) {
	t.Helper()
	doc := jwksJSON(t, keys)
	m.mu.Lock()
	m.doc = doc
	m.mu.Unlock()
}

func TestKeyCacheReusesFreshSet(t *testing.T) {
	priv := newRSAKey(t)
	jwks := newMutableJWKS(t, map[string]*rsa.PrivateKey{"kid-1": priv})
	kc := NewKeyCache(jwks.srv.URL, time.Minute, time.Second)

	for i := 0; i < 3; i++ {
		if _, err := kc.SigningKey(context.Background(), "kid-1"); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&jwks.fetches); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestKeyCacheRefetchesExpiredSet(t *testing.T) {
	priv := newRSAKey(t)
	jwks := newMutableJWKS(t, map[string]*rsa.PrivateKey{"kid-1": priv})
	kc := NewKeyCache(jwks.srv.URL, time.Nanosecond, time.Second)

	for i := 0; i < 2; i++ {
		if _, err := kc.SigningKey(context.Background(), "kid-1"); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&jwks.fetches); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestKeyCachePicksUpRotatedKey(t *testing.T) {
	old := newRSAKey(t)
	jwks := newMutableJWKS(t, map[string]*rsa.PrivateKey{"kid-old": old})
	kc := NewKeyCache(jwks.srv.URL, time.Hour, time.Second)

	if _, err := kc.SigningKey(context.Background(), "kid-old"); err != nil {
		t.Fatalf("initial lookup: %v", err)
	}

	fresh := newRSAKey(t)
	jwks.swap(t, map[string]*rsa.PrivateKey{"kid-old": old, "kid-new": fresh})

	// The cached set is still fresh by TTL, but the unknown kid should
	// force one refetch instead of failing.
	if _, err := kc.SigningKey(context.Background(), "kid-new"); err != nil {
		t.Fatalf("rotated lookup: %v", err)
	}
	if n := atomic.LoadInt32(&jwks.fetches); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestKeyCacheUnknownKeyID(t *testing.T) {
	priv := newRSAKey(t)
	jwks := newMutableJWKS(t, map[string]*rsa.PrivateKey{"kid-1": priv})
	kc := NewKeyCache(jwks.srv.URL, time.Hour, time.Second)

	if _, err := kc.SigningKey(context.Background(), "kid-1"); err != nil {
		t.Fatalf("warm-up lookup: %v", err)
	}
	if _, err := kc.SigningKey(context.Background(), "kid-missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("err = %v, want ErrKeyNotFound", err)
	}
	// The miss on a warm cache triggers one rotation refetch, then gives up.
	if n := atomic.LoadInt32(&jwks.fetches); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestKeyCacheFailsClosedOnSlowProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	kc := NewKeyCache(srv.URL, time.Minute, 50*time.Millisecond)
	if _, err := kc.SigningKey(context.Background(), "kid-1"); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}
