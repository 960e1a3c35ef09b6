package page

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	r := Request{Number: -1, Size: 0}.Normalize()
	if r.Number != 0 || r.Size != DefaultSize {
		t.Fatalf("unexpected request: %+v", r)
	}

	r = Request{Number: 2, Size: 500}.Normalize()
	if r.Size != MaxSize {
		t.Fatalf("expected size capped at %d, got %d", MaxSize, r.Size)
	}
	if r.Number != 2 {
		t.Fatalf("number must be preserved, got %d", r.Number)
	}
}

func TestNormalizeCapsNumber(t *testing.T) {
	r := Request{Number: math.MaxInt, Size: DefaultSize}.Normalize()
	if r.Offset() < 0 {
		t.Fatalf("offset overflowed: %d", r.Offset())
	}

	r = Request{Number: math.MaxInt, Size: math.MaxInt}.Normalize()
	if r.Offset() < 0 {
		t.Fatalf("offset overflowed: %d", r.Offset())
	}
}

func TestOffset(t *testing.T) {
	r := Request{Number: 3, Size: 20}
	if r.Offset() != 60 {
		t.Fatalf("expected offset 60, got %d", r.Offset())
	}
}

func TestNewNeverNilContent(t *testing.T) {
	p := New[int](nil, Request{Size: 10}, 0)
	if p.Content == nil {
		t.Fatal("content must not be nil")
	}
	if len(p.Content) != 0 {
		t.Fatalf("expected empty content, got %d", len(p.Content))
	}
}
