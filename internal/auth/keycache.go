package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/jwk"
)

// KeyCache fetches the identity provider's published key set and serves
// signing-key lookups by key-id without a network round trip while the
// cached set is fresh.  A lookup that misses on a fresh set triggers
// one refetch so provider key rotation does not strand newly signed
// tokens until the TTL expires.  The fetch itself runs over an HTTP
// client with a bounded timeout: when the provider is unreachable the
// error propagates and authentication fails closed.
type KeyCache struct {
	url    string
	ttl    time.Duration
	client *http.Client

	mu        sync.Mutex
	set       jwk.Set
	fetchedAt time.Time
}

// NewKeyCache returns a KeyCache for the key set published at url.
// ttl controls how long a fetched set is reused; fetchTimeout bounds a
// single fetch.
func NewKeyCache(url string, ttl, fetchTimeout time.Duration) *KeyCache {
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	return &KeyCache{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// SigningKey resolves the public key matching keyID, fetching the key
// set when the cache is empty or stale.  It returns the raw crypto key
// (e.g. *rsa.PublicKey) suitable for signature verification, or
// ErrKeyNotFound when no published key carries the requested id.
func (kc *KeyCache) SigningKey(ctx context.Context, keyID string) (interface{}, error) {
	kc.mu.Lock()
	defer kc.mu.Unlock()

	refreshed := false
	if kc.set == nil || time.Since(kc.fetchedAt) > kc.ttl {
		if err := kc.refreshLocked(ctx); err != nil {
			return nil, err
		}
		refreshed = true
	}

	key, found := kc.set.LookupKeyID(keyID)
	if !found && !refreshed {
		// Possible key rotation since the last fetch.
		if err := kc.refreshLocked(ctx); err != nil {
			return nil, err
		}
		key, found = kc.set.LookupKeyID(keyID)
	}
	if !found {
		return nil, ErrKeyNotFound
	}

	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// refreshLocked fetches the key set and stamps the cache.  Callers must
// hold kc.mu.
func (kc *KeyCache) refreshLocked(ctx context.Context) error {
	set, err := jwk.Fetch(ctx, kc.url, jwk.WithHTTPClient(kc.client))
	if err != nil {
		return err
	}
	kc.set = set
	kc.fetchedAt = time.Now()
	return nil
}
