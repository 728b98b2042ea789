package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucketAllowsUpToCapacity(t *testing.T) {
	tb := NewTokenBucket(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if tb.Allow() {
		t.Error("request beyond capacity should be denied")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(1, 20*time.Millisecond)

	if !tb.Allow() {
		t.Fatal("first request should be allowed")
	}
	if tb.Allow() {
		t.Fatal("second immediate request should be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if !tb.Allow() {
		t.Error("request after refill period should be allowed")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)

	tb.Allow()
	if tb.Allow() {
		t.Fatal("bucket should be drained")
	}

	tb.Reset()
	if !tb.Allow() {
		t.Error("request after reset should be allowed")
	}
}

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("unlimited limiter must always allow")
		}
	}
	l.Wait()
	l.Reset()
}
