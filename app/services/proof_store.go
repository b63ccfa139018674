package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProofStore holds the opaque proof issued after a successful OTP check.
// A proof is redeemable exactly once: Take returns the email it was issued
// for and removes it.
type ProofStore interface {
	Put(proof, email string, ttl time.Duration) error
	Take(proof string) (email string, ok bool)
}

// ─── Redis implementation ─────────────────────────────────────────────────────

// RedisProofStore keeps proofs in Redis so any instance can redeem them.
type RedisProofStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisProofStore(rdb *redis.Client) *RedisProofStore {
	return &RedisProofStore{rdb: rdb, ctx: context.Background()}
}

func (s *RedisProofStore) key(proof string) string {
	return "shopping:reset-proof:" + proof
}

func (s *RedisProofStore) Put(proof, email string, ttl time.Duration) error {
	return s.rdb.Set(s.ctx, s.key(proof), email, ttl).Err()
}

func (s *RedisProofStore) Take(proof string) (string, bool) {
	email, err := s.rdb.GetDel(s.ctx, s.key(proof)).Result()
	if err != nil {
		return "", false
	}
	return email, true
}

// ─── In-memory implementation ─────────────────────────────────────────────────

// MemoryProofStore is a process-local store for tests and Redis-less dev.
type MemoryProofStore struct {
	mu     sync.Mutex
	proofs map[string]memoryProof
	now    func() time.Time
}

type memoryProof struct {
	email     string
	expiresAt time.Time
}

func NewMemoryProofStore() *MemoryProofStore {
	return &MemoryProofStore{proofs: map[string]memoryProof{}, now: time.Now}
}

// WithClock overrides the store clock for expiry tests.
func (s *MemoryProofStore) WithClock(now func() time.Time) *MemoryProofStore {
	s.now = now
	return s
}

func (s *MemoryProofStore) Put(proof, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proofs[proof] = memoryProof{email: email, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryProofStore) Take(proof string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proofs[proof]
	if !ok {
		return "", false
	}
	delete(s.proofs, proof)
	if s.now().After(p.expiresAt) {
		return "", false
	}
	return p.email, true
}
