package remote

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"mpage/internal/journal"
)

func TestMemoryBackend_List(t *testing.T) {
	t.Parallel()

	t.Run("synthesizes directory entries", func(t *testing.T) {
		t.Parallel()

		m := NewMemoryBackend(nil)
		at := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
		m.Seed("1월/1째주/2024-01-01.md", "글", at)
		m.Seed("1월/2째주/2024-01-08.md", "글", at)
		m.Seed("README.md", "readme", at)

		infos, err := m.List(context.Background(), "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		// One synthesized 1월 directory plus the root-level file.
		if len(infos) != 2 {
			t.Fatalf("infos = %d, want 2", len(infos))
		}
		if !infos[0].IsDir() || infos[0].Path != "1월" {
			t.Errorf("infos[0] = %+v, want the 1월 directory", infos[0])
		}
		if infos[1].Name != "README.md" {
			t.Errorf("infos[1] = %+v, want README.md", infos[1])
		}

		weeks, err := m.List(context.Background(), "1월")
		if err != nil {
			t.Fatalf("List(1월) error = %v", err)
		}
		if len(weeks) != 2 || !weeks[0].IsDir() || !weeks[1].IsDir() {
			t.Errorf("weeks = %+v, want two week directories", weeks)
		}
	})

	t.Run("empty repository lists empty", func(t *testing.T) {
		t.Parallel()

		m := NewMemoryBackend(nil)
		infos, err := m.List(context.Background(), "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(infos) != 0 {
			t.Errorf("infos = %d, want 0", len(infos))
		}
	})
}

func TestMemoryBackend_GetPut(t *testing.T) {
	t.Parallel()

	t.Run("get returns the base64 body", func(t *testing.T) {
		t.Parallel()

		m := NewMemoryBackend(nil)
		m.Seed("a.md", "안녕", time.Now())

		info, err := m.Get(context.Background(), "a.md")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		raw, err := base64.StdEncoding.DecodeString(info.Body)
		if err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if string(raw) != "안녕" {
			t.Errorf("body = %q, want 안녕", raw)
		}
	})

	t.Run("get of a missing path is ErrNotFound", func(t *testing.T) {
		t.Parallel()

		m := NewMemoryBackend(nil)
		if _, err := m.Get(context.Background(), "없는.md"); !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("version check on update", func(t *testing.T) {
		t.Parallel()

		m := NewMemoryBackend(nil)
		ctx := context.Background()

		res, err := m.Put(ctx, "a.md", "msg", base64.StdEncoding.EncodeToString([]byte("v1")), "")
		if err != nil {
			t.Fatalf("create Put() error = %v", err)
		}

		// Updating with the current sha succeeds.
		res2, err := m.Put(ctx, "a.md", "msg", base64.StdEncoding.EncodeToString([]byte("v2")), res.SHA)
		if err != nil {
			t.Fatalf("update Put() error = %v", err)
		}
		if res2.SHA == res.SHA {
			t.Error("sha did not advance on update")
		}

		// A stale sha fails.
		if _, err := m.Put(ctx, "a.md", "msg", base64.StdEncoding.EncodeToString([]byte("v3")), res.SHA); err == nil {
			t.Error("stale-sha Put() error = nil, want version mismatch")
		}

		// Creating with a sha against a missing path fails.
		if _, err := m.Put(ctx, "b.md", "msg", base64.StdEncoding.EncodeToString([]byte("x")), "sha-1"); !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryBackend_Commits(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend(nil)
	first := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	m.Seed("a.md", "v1", first)

	second := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	m.Seed("a.md", "v2", second)

	commits, err := m.Commits(context.Background(), "a.md")
	if err != nil {
		t.Fatalf("Commits() error = %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("commits = %d, want 2", len(commits))
	}
	if !commits[0].CommittedAt.Equal(second) {
		t.Errorf("commits[0] = %v, want the most recent first", commits[0].CommittedAt)
	}

	none, err := m.Commits(context.Background(), "없는.md")
	if err != nil {
		t.Fatalf("Commits() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("commits for unknown path = %d, want 0", len(none))
	}
}

func TestMemoryBackend_FaultInjection(t *testing.T) {
	t.Parallel()

	m := NewMemoryBackend(nil)
	boom := errors.New("boom")
	m.FailList = boom
	m.FailGet = boom
	m.FailPut = boom
	m.FailCommits = boom

	ctx := context.Background()
	if _, err := m.List(ctx, ""); !errors.Is(err, boom) {
		t.Errorf("List error = %v, want injected fault", err)
	}
	if _, err := m.Get(ctx, "a.md"); !errors.Is(err, boom) {
		t.Errorf("Get error = %v, want injected fault", err)
	}
	if _, err := m.Put(ctx, "a.md", "m", "eA==", ""); !errors.Is(err, boom) {
		t.Errorf("Put error = %v, want injected fault", err)
	}
	if _, err := m.Commits(ctx, "a.md"); !errors.Is(err, boom) {
		t.Errorf("Commits error = %v, want injected fault", err)
	}
}
