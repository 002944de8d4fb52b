package activity

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAppend_NewestFirst(t *testing.T) {
	l := NewLog()

	l.Append("first")
	l.Append("second")
	l.Append("third")

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(Entries()) = %d, want 3", len(entries))
	}
	if entries[0].Message != "third" || entries[2].Message != "first" {
		t.Errorf("entries not newest first: %v", entries)
	}
}

func TestAppend_Bound(t *testing.T) {
	l := NewLog()

	// 60 appends must retain exactly the 50 most recent, newest first.
	for i := range 60 {
		l.Append(fmt.Sprintf("entry-%d", i))
	}

	entries := l.Entries()
	if len(entries) != DefaultCapacity {
		t.Fatalf("len(Entries()) = %d, want %d", len(entries), DefaultCapacity)
	}
	if entries[0].Message != "entry-59" {
		t.Errorf("newest entry = %q, want entry-59", entries[0].Message)
	}
	if entries[len(entries)-1].Message != "entry-10" {
		t.Errorf("oldest retained entry = %q, want entry-10", entries[len(entries)-1].Message)
	}
}

func TestAppend_Timestamped(t *testing.T) {
	l := NewLog()
	fixed := time.Date(2026, 1, 7, 16, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Append("stamped")

	if got := l.Entries()[0].Timestamp; !got.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", got, fixed)
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append("original")

	entries := l.Entries()
	entries[0].Message = "mutated"

	if l.Entries()[0].Message != "original" {
		t.Error("mutating the returned slice must not affect the log")
	}
}

func TestLog_ConcurrentAppend(t *testing.T) {
	l := NewLogWithCapacity(10)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(fmt.Sprintf("entry-%d", i))
		}()
	}
	wg.Wait()

	if l.Len() != 10 {
		t.Errorf("Len() = %d, want 10", l.Len())
	}
}
