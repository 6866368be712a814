package model

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCodeGeneratorMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	g := NewCodeGenerator(func() time.Time { return fixed })

	first := g.Next(StudentCodePrefix)
	second := g.Next(StudentCodePrefix)

	if first != "STD1700000000000" {
		t.Fatalf("first = %q", first)
	}
	if second != "STD1700000000001" {
		t.Fatalf("second = %q, want next millisecond", second)
	}
}

func TestCodeGeneratorFollowsClock(t *testing.T) {
	now := time.UnixMilli(1_000)
	g := NewCodeGenerator(func() time.Time { return now })

	g.Next(ClassCodePrefix)
	now = now.Add(time.Second)
	if got := g.Next(ClassCodePrefix); got != "CLS2000" {
		t.Fatalf("got %q, want CLS2000", got)
	}
}

func TestCodeGeneratorConcurrentUnique(t *testing.T) {
	fixed := time.UnixMilli(5_000)
	g := NewCodeGenerator(func() time.Time { return fixed })

	const n = 200
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- g.Next(TeacherCodePrefix)
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool, n)
	for c := range codes {
		if !strings.HasPrefix(c, TeacherCodePrefix) {
			t.Fatalf("code %q missing prefix", c)
		}
		if _, err := strconv.ParseInt(strings.TrimPrefix(c, TeacherCodePrefix), 10, 64); err != nil {
			t.Fatalf("code %q has non-numeric suffix", c)
		}
		if seen[c] {
			t.Fatalf("duplicate code %q", c)
		}
		seen[c] = true
	}
}
