package bitset

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestBitSet(t *testing.T) {
	b := New(100)

	if b.Len() != 100 {
		t.Errorf("expected len 100, got %d", b.Len())
	}
	if b.Words() != 2 {
		t.Errorf("expected 2 words, got %d", b.Words())
	}

	b.Set(10)
	if !b.Test(10) {
		t.Errorf("expected bit 10 to be set")
	}

	if b.Count() != 1 {
		t.Errorf("expected count 1, got %d", b.Count())
	}

	b.Set(20)
	b.Set(99)
	b.Set(100) // out of range, ignored

	if b.Count() != 3 {
		t.Errorf("expected count 3, got %d", b.Count())
	}
	if b.Test(100) {
		t.Errorf("expected out of range bit to read as unset")
	}

	b.ClearAll()
	if b.Count() != 0 {
		t.Errorf("expected count 0 after clear, got %d", b.Count())
	}
}

func TestBitSet_TestAndSet(t *testing.T) {
	b := New(128)

	if b.TestAndSet(64) {
		t.Errorf("expected first TestAndSet to report unset")
	}
	if !b.TestAndSet(64) {
		t.Errorf("expected second TestAndSet to report set")
	}
	if b.TestAndSet(500) {
		t.Errorf("expected out of range TestAndSet to report unset")
	}
}

func TestBitSet_Concurrent(t *testing.T) {
	const n = 1 << 16
	b := New(n)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := uint64(g); i < n; i += 8 {
				b.Set(i)
			}
		}(g)
	}
	wg.Wait()

	if b.Count() != n {
		t.Errorf("expected all %d bits set, got %d", n, b.Count())
	}
}

func TestBitSet_Serialization(t *testing.T) {
	b := New(1000)
	b.Set(1)
	b.Set(500)
	b.Set(999)

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("expected %d bytes written, got %d", buf.Len(), n)
	}

	b2 := New(1000)
	if _, err := b2.ReadFrom(&buf); err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	for _, i := range []uint64{1, 500, 999} {
		if !b2.Test(i) {
			t.Errorf("expected bit %d to be set", i)
		}
	}
	if b2.Count() != 3 {
		t.Errorf("expected count 3, got %d", b2.Count())
	}

	buf.Reset()
	if _, err := b.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if _, err := New(64).ReadFrom(&buf); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestBitSet_LoadBytes(t *testing.T) {
	b := New(70)
	b.Set(69)
	img := b.AppendBytes(nil)
	if len(img) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(img))
	}

	b2 := New(70)
	if err := b2.LoadBytes(img); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if !b2.Test(69) {
		t.Errorf("expected bit 69 to be set")
	}

	img[15] = 0x80 // bit 127, beyond length
	if err := b2.LoadBytes(img); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
	if err := b2.LoadBytes(img[:8]); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}
