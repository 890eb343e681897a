package links

import "testing"

// TestExtract tests inline link extraction.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("finds links in order", func(t *testing.T) {
		t.Parallel()

		content := "See [guide](./guide.md) and [api](https://example.com/proj/wiki/API)."
		got := Extract(content)

		if len(got) != 2 {
			t.Fatalf("expected 2 links, got %d", len(got))
		}
		if got[0].Text != "guide" || got[0].Ref != "./guide.md" {
			t.Errorf("unexpected first link: %+v", got[0])
		}
		if got[1].Text != "api" || got[1].Ref != "https://example.com/proj/wiki/API" {
			t.Errorf("unexpected second link: %+v", got[1])
		}
	})

	t.Run("returns nil when no links exist", func(t *testing.T) {
		t.Parallel()

		if got := Extract("plain prose with (parentheses) only"); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("allows empty link text", func(t *testing.T) {
		t.Parallel()

		got := Extract("[](./anon.md)")
		if len(got) != 1 {
			t.Fatalf("expected 1 link, got %d", len(got))
		}
		if got[0].Text != "" || got[0].Ref != "./anon.md" {
			t.Errorf("unexpected link: %+v", got[0])
		}
	})

	t.Run("allows spaces in references", func(t *testing.T) {
		t.Parallel()

		got := Extract("[page](./Some Page.md)")
		if len(got) != 1 {
			t.Fatalf("expected 1 link, got %d", len(got))
		}
		if got[0].Ref != "./Some Page.md" {
			t.Errorf("unexpected ref %q", got[0].Ref)
		}
	})

	t.Run("captures image references", func(t *testing.T) {
		t.Parallel()

		got := Extract("![diagram](./img/flow.png)")
		if len(got) != 1 {
			t.Fatalf("expected 1 link, got %d", len(got))
		}
		if got[0].Ref != "./img/flow.png" {
			t.Errorf("unexpected ref %q", got[0].Ref)
		}
	})
}
