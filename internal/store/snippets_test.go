package store

import (
	"errors"
	"testing"

	"snip/internal/apperror"
	"snip/internal/ident"
)

func TestCreateAndGetSnippet(t *testing.T) {
	st := testStore(t)

	created, err := st.CreateSnippet("greeting", "hello there")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID.IsNil() {
		t.Fatal("expected generated id")
	}

	got, err := st.GetSnippet(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "greeting" || got.Text != "hello there" {
		t.Fatalf("unexpected snippet %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("timestamp mismatch: stored %v, read %v", created.CreatedAt, got.CreatedAt)
	}
}

func TestGetSnippetMissing(t *testing.T) {
	st := testStore(t)

	_, err := st.GetSnippet(ident.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetFirstSnippet(t *testing.T) {
	st := testStore(t)

	if _, err := st.GetFirstSnippet(); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found on empty store, got %v", err)
	}

	created, err := st.CreateSnippet("only", "one")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := st.GetFirstSnippet()
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if first.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, first.ID)
	}
}

func TestListSnippets(t *testing.T) {
	st := testStore(t)

	empty, err := st.ListSnippets()
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no snippets, got %d", len(empty))
	}

	want := map[ident.ID]bool{}
	for _, name := range []string{"a", "b", "c"} {
		s, err := st.CreateSnippet(name, "body "+name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		want[s.ID] = true
	}

	got, err := st.ListSnippets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d snippets, got %d", len(want), len(got))
	}
	for _, s := range got {
		if !want[s.ID] {
			t.Fatalf("unexpected snippet %s", s.ID)
		}
	}
}

func TestUpdateSnippet(t *testing.T) {
	st := testStore(t)

	created, err := st.CreateSnippet("draft", "first version")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "final"
	updated, err := st.UpdateSnippet(created.ID, SnippetUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != "final" || updated.Text != "first version" {
		t.Fatalf("unexpected snippet after name update %+v", updated)
	}

	text := "second version"
	if _, err := st.UpdateSnippet(created.ID, SnippetUpdate{Text: &text}); err != nil {
		t.Fatalf("update text: %v", err)
	}
	got, err := st.GetSnippet(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "final" || got.Text != "second version" {
		t.Fatalf("unexpected stored snippet %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not touch the timestamp")
	}
}

func TestUpdateSnippetMissing(t *testing.T) {
	st := testStore(t)

	name := "x"
	_, err := st.UpdateSnippet(ident.New(), SnippetUpdate{Name: &name})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSnippet(t *testing.T) {
	st := testStore(t)

	created, err := st.CreateSnippet("doomed", "short lived")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.DeleteSnippet(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := st.GetSnippet(created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if got := countRows(t, st.conn, "SELECT COUNT(*) FROM snip_term WHERE snip_uuid = ?", created.ID.String()); got != 0 {
		t.Fatalf("expected terms removed, got %d", got)
	}

	if err := st.DeleteSnippet(created.ID); !errors.Is(err, apperror.ErrStorage) {
		t.Fatalf("expected storage error on second delete, got %v", err)
	}
}

func TestSearchSnippets(t *testing.T) {
	st := testStore(t)

	running, err := st.CreateSnippet("jogging notes", "Running in the park, every morning.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	cats, err := st.CreateSnippet("pets", "The cats were running around.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  []ident.ID
	}{
		{name: "stemmed match in both", query: "runs", want: []ident.ID{running.ID, cats.ID}},
		{name: "all terms required", query: "run cat", want: []ident.ID{cats.ID}},
		{name: "name is indexed", query: "jogging", want: []ident.ID{running.ID}},
		{name: "case insensitive", query: "PARK", want: []ident.ID{running.ID}},
		{name: "no match", query: "elephant", want: nil},
		{name: "empty query", query: "   ", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := st.SearchSnippets(tc.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d results, got %d", len(tc.want), len(got))
			}
			found := map[ident.ID]bool{}
			for _, s := range got {
				found[s.ID] = true
			}
			for _, id := range tc.want {
				if !found[id] {
					t.Fatalf("missing %s in results", id)
				}
			}
		})
	}
}

func TestSearchFollowsUpdates(t *testing.T) {
	st := testStore(t)

	created, err := st.CreateSnippet("note", "apples")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	text := "oranges"
	if _, err := st.UpdateSnippet(created.ID, SnippetUpdate{Text: &text}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got, _ := st.SearchSnippets("apple"); len(got) != 0 {
		t.Fatalf("expected stale term dropped, got %d results", len(got))
	}
	if got, _ := st.SearchSnippets("orange"); len(got) != 1 {
		t.Fatalf("expected new term indexed, got %d results", len(got))
	}
}
