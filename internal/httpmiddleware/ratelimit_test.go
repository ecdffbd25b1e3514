package httpmiddleware

import "testing"

func TestTokenBucketExhausts(t *testing.T) {
	l := NewTokenBucket(3, 3)
	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.allow("1.2.3.4") {
		t.Fatal("expected bucket exhaustion")
	}
	// Other clients have their own bucket.
	if !l.allow("5.6.7.8") {
		t.Fatal("independent client should be allowed")
	}
}

func TestTokenBucketZeroCapacityDefaults(t *testing.T) {
	l := NewTokenBucket(0, 2)
	if l.capacity != 2 {
		t.Fatalf("expected capacity to default to rate, got %d", l.capacity)
	}
}
