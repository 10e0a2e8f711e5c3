package journal

import (
	"sync"
	"testing"
	"time"
)

func rec(path string) FileRecord {
	return FileRecord{Name: baseName(path), Path: path, State: Saved("sha-1")}
}

func TestCache_ReplaceAll(t *testing.T) {
	t.Parallel()

	c := NewCache()
	c.ReplaceAll([]FileRecord{rec("1월/1째주/2024-01-01.md"), rec("1월/1째주/2024-01-02.md")})

	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	c.ReplaceAll([]FileRecord{rec("2월/1째주/2024-02-01.md")})
	if got := c.Len(); got != 1 {
		t.Fatalf("Len() after replace = %d, want 1", got)
	}
	if _, ok := c.Get("1월/1째주/2024-01-01.md"); ok {
		t.Error("old record survived ReplaceAll")
	}
}

func TestCache_Patch(t *testing.T) {
	t.Parallel()

	t.Run("merges fields independently", func(t *testing.T) {
		t.Parallel()

		c := NewCache()
		c.Upsert(rec("1월/1째주/2024-01-01.md"))

		content := "아침 글"
		savedAt := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)

		if !c.Patch("1월/1째주/2024-01-01.md", RecordPatch{Content: &content}) {
			t.Fatal("content patch reported no-op")
		}
		if !c.Patch("1월/1째주/2024-01-01.md", RecordPatch{SavedAt: &savedAt}) {
			t.Fatal("savedAt patch reported no-op")
		}

		got, _ := c.Get("1월/1째주/2024-01-01.md")
		if got.Content == nil || *got.Content != content {
			t.Errorf("Content = %v, want %q", got.Content, content)
		}
		if got.SavedAt == nil || !got.SavedAt.Equal(savedAt) {
			t.Errorf("SavedAt = %v, want %v", got.SavedAt, savedAt)
		}
	})

	t.Run("absent path is a no-op", func(t *testing.T) {
		t.Parallel()

		c := NewCache()
		content := "x"
		if c.Patch("없는/경로.md", RecordPatch{Content: &content}) {
			t.Error("Patch on absent path = true, want false")
		}
		if c.Len() != 0 {
			t.Errorf("Len() = %d, want 0", c.Len())
		}
	})

	t.Run("concurrent patches to different paths both land", func(t *testing.T) {
		t.Parallel()

		c := NewCache()
		c.Upsert(rec("a.md"))
		c.Upsert(rec("b.md"))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				content := "a-content"
				c.Patch("a.md", RecordPatch{Content: &content})
			}()
			go func() {
				defer wg.Done()
				content := "b-content"
				c.Patch("b.md", RecordPatch{Content: &content})
			}()
		}
		wg.Wait()

		a, _ := c.Get("a.md")
		b, _ := c.Get("b.md")
		if a.Content == nil || *a.Content != "a-content" {
			t.Errorf("a.Content = %v, want a-content", a.Content)
		}
		if b.Content == nil || *b.Content != "b-content" {
			t.Errorf("b.Content = %v, want b-content", b.Content)
		}
	})
}

func TestCache_Remove(t *testing.T) {
	t.Parallel()

	c := NewCache()
	c.Upsert(rec("1월/1째주/2024-01-01.md"))
	c.Remove("1월/1째주/2024-01-01.md")

	if _, ok := c.Get("1월/1째주/2024-01-01.md"); ok {
		t.Error("record still present after Remove")
	}

	// Removing an absent path does not bump the version.
	v := c.Version()
	c.Remove("없는/경로.md")
	if c.Version() != v {
		t.Error("Remove of absent path bumped version")
	}
}

func TestCache_FindByDatePrefix(t *testing.T) {
	t.Parallel()

	c := NewCache()
	c.Upsert(FileRecord{Name: "2024-01-15 회고.md", Path: "1월/3째주/2024-01-15 회고.md", State: Saved("s")})

	got, ok := c.FindByDatePrefix("2024-01-15")
	if !ok {
		t.Fatal("FindByDatePrefix() found nothing")
	}
	if got.Path != "1월/3째주/2024-01-15 회고.md" {
		t.Errorf("Path = %q, want the titled entry", got.Path)
	}

	if _, ok := c.FindByDatePrefix("2024-01-16"); ok {
		t.Error("FindByDatePrefix() matched a missing date")
	}
}

func TestCache_VersionBumpsOnMutation(t *testing.T) {
	t.Parallel()

	c := NewCache()
	v0 := c.Version()

	c.Upsert(rec("a.md"))
	v1 := c.Version()
	if v1 <= v0 {
		t.Errorf("version after Upsert = %d, want > %d", v1, v0)
	}

	content := "x"
	c.Patch("a.md", RecordPatch{Content: &content})
	v2 := c.Version()
	if v2 <= v1 {
		t.Errorf("version after Patch = %d, want > %d", v2, v1)
	}

	c.GetAll()
	if c.Version() != v2 {
		t.Error("read bumped the version")
	}
}
