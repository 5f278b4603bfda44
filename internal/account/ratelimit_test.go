// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package account

import (
	"testing"
	"time"
)

func TestRateLimiter_BurstThenRefuse(t *testing.T) {
	rl := newRateLimiter(10, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		if !rl.Allow("alice") {
			t.Fatalf("attempt %d refused within burst capacity", i+1)
		}
	}
	if rl.Allow("alice") {
		t.Error("attempt 11 allowed with an empty bucket")
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := newRateLimiter(10, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		rl.Allow("alice")
	}
	if rl.Allow("alice") {
		t.Fatal("bucket should be empty")
	}

	now = now.Add(3 * time.Second)
	for i := 0; i < 3; i++ {
		if !rl.Allow("alice") {
			t.Fatalf("refilled attempt %d refused after 3s", i+1)
		}
	}
	if rl.Allow("alice") {
		t.Error("fourth attempt allowed after only 3 tokens refilled")
	}
}

func TestRateLimiter_CapsAtCapacity(t *testing.T) {
	rl := newRateLimiter(10, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("alice")
	now = now.Add(time.Hour)

	allowed := 0
	for i := 0; i < 20; i++ {
		if rl.Allow("alice") {
			allowed++
		}
	}
	if allowed != 10 {
		t.Errorf("allowed %d attempts after a long idle, want 10", allowed)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := newRateLimiter(10, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		rl.Allow("alice")
	}
	if rl.Allow("alice") {
		t.Fatal("alice's bucket should be empty")
	}
	if !rl.Allow("bob") {
		t.Error("bob throttled by alice's attempts")
	}
}
