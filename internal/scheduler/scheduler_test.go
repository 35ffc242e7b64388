package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/dl/hypergrep/internal/pattern"
	"github.com/dl/hypergrep/internal/scan"
	"github.com/dl/hypergrep/internal/walker"
)

func tempFiles(t *testing.T, n int) []walker.FileEntry {
	t.Helper()
	dir := t.TempDir()
	entries := make([]walker.FileEntry, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("file%03d.txt", i))
		content := fmt.Sprintf("filler\nneedle in file %d\nfiller\n", i)
		if i%3 == 0 {
			content = "no hits here\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		entries[i] = walker.FileEntry{Path: path}
	}
	return entries
}

func newDriver(t *testing.T) *scan.Driver {
	t.Helper()
	set, err := pattern.Compile([]string{"needle"}, pattern.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(set.Close)
	return scan.New(set, scan.Options{})
}

func TestScheduler_Collect(t *testing.T) {
	entries := tempFiles(t, 20)
	files := make(chan walker.FileEntry, len(entries))
	for _, e := range entries {
		files <- e
	}
	close(files)

	sched := New(4, newDriver(t), ModeCollect)
	var seqs []int
	matched := 0
	for r := range sched.Run(context.Background(), files) {
		if r.Err != nil {
			t.Errorf("%s: %v", r.FilePath, r.Err)
		}
		seqs = append(seqs, r.SeqNum)
		if r.HasMatch() {
			matched++
			if len(r.Records) != 1 || r.Records[0].Line != 2 {
				t.Errorf("%s: records = %v", r.FilePath, r.Records)
			}
		}
	}

	// Files 0,3,6,9,12,15,18 have no match: 20 - 7 = 13 hits.
	if matched != 13 {
		t.Errorf("matched %d files, want 13", matched)
	}
	// Every sequence number assigned exactly once, 1..N.
	sort.Ints(seqs)
	for i, s := range seqs {
		if s != i+1 {
			t.Fatalf("sequence numbers broken: %v", seqs)
		}
	}
}

func TestScheduler_WalkOrderSequencing(t *testing.T) {
	// A large file ahead of small ones in the walk finishes scanning last.
	// Its sequence number must still come from its walk position, so the
	// ordered writer replays results in walk order rather than completion
	// order.
	dir := t.TempDir()
	big := filepath.Join(dir, "aaa-big.txt")
	bigContent := strings.Repeat("filler line with a needle in it\n", 50000)
	if err := os.WriteFile(big, []byte(bigContent), 0o644); err != nil {
		t.Fatal(err)
	}

	entries := []walker.FileEntry{{Path: big}}
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("zzz-small%d.txt", i))
		if err := os.WriteFile(path, []byte("needle\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		entries = append(entries, walker.FileEntry{Path: path})
	}

	files := make(chan walker.FileEntry, len(entries))
	for _, e := range entries {
		files <- e
	}
	close(files)

	sched := New(4, newDriver(t), ModeCount)
	byPath := make(map[string]int)
	for r := range sched.Run(context.Background(), files) {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.FilePath, r.Err)
		}
		byPath[r.FilePath] = r.SeqNum
	}

	for i, e := range entries {
		if got := byPath[e.Path]; got != i+1 {
			t.Errorf("%s: SeqNum = %d, want %d", filepath.Base(e.Path), got, i+1)
		}
	}
}

func TestScheduler_ExistsMode(t *testing.T) {
	entries := tempFiles(t, 6)
	files := make(chan walker.FileEntry, len(entries))
	for _, e := range entries {
		files <- e
	}
	close(files)

	sched := New(2, newDriver(t), ModeExists)
	matched := 0
	for r := range sched.Run(context.Background(), files) {
		if r.Err != nil {
			t.Errorf("%s: %v", r.FilePath, r.Err)
		}
		if len(r.Records) != 0 {
			t.Errorf("ModeExists built records: %v", r.Records)
		}
		if r.Matched {
			matched++
		}
	}
	if matched != 4 {
		t.Errorf("matched %d files, want 4", matched)
	}
}

func TestScheduler_CountMode(t *testing.T) {
	entries := tempFiles(t, 1)
	files := make(chan walker.FileEntry, 1)
	files <- entries[0]
	close(files)

	sched := New(1, newDriver(t), ModeCount)
	for r := range sched.Run(context.Background(), files) {
		if r.Err != nil {
			t.Fatal(r.Err)
		}
		if r.Count != 0 {
			t.Errorf("file 0 has no matches, Count = %d", r.Count)
		}
	}
}

func TestScheduler_MissingFile(t *testing.T) {
	files := make(chan walker.FileEntry, 1)
	files <- walker.FileEntry{Path: filepath.Join(t.TempDir(), "missing")}
	close(files)

	sched := New(1, newDriver(t), ModeCollect)
	got := 0
	for r := range sched.Run(context.Background(), files) {
		got++
		if r.Err == nil {
			t.Error("want error for missing file")
		}
	}
	if got != 1 {
		t.Errorf("got %d results, want 1", got)
	}
}

func TestScheduler_SharedPatternSet(t *testing.T) {
	// One compiled set, many concurrent scans: the automaton is read-only
	// and must produce identical results under parallelism.
	entries := tempFiles(t, 50)
	driver := newDriver(t)

	for _, workers := range []int{1, 8} {
		files := make(chan walker.FileEntry, len(entries))
		for _, e := range entries {
			files <- e
		}
		close(files)

		matched := 0
		for r := range New(workers, driver, ModeCollect).Run(context.Background(), files) {
			if r.HasMatch() {
				matched++
			}
		}
		// Files divisible by 3 (0,3,...,48 = 17 files) have no match.
		if matched != 33 {
			t.Errorf("workers=%d: matched %d, want 33", workers, matched)
		}
	}
}
