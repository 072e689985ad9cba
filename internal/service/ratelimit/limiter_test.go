package ratelimit

import "testing"

func TestAllowExhaustsBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("call %d denied before bucket emptied", i+1)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatalf("call allowed after bucket emptied")
	}
}

func TestAllowPerMinuteBurst(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		if !l.AllowPerMinute("alphavantage", 5) {
			t.Fatalf("call %d denied within the per-minute burst", i+1)
		}
	}
	if l.AllowPerMinute("alphavantage", 5) {
		t.Fatalf("sixth call allowed within the same minute")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first call for key a denied")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("second call for key a allowed")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("key b denied by key a's bucket")
	}
}
