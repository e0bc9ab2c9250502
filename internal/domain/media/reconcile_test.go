package media

import (
	"reflect"
	"testing"
)

func ids(items []Item) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.TmdbID
	}
	return out
}

func set(vals ...int) map[int]struct{} {
	s := make(map[int]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func TestReconcileFiltersOwnedAndIgnored(t *testing.T) {
	trending := []Item{
		{TmdbID: 1, Title: "A", Kind: KindMovie},
		{TmdbID: 2, Title: "B", Kind: KindMovie},
		{TmdbID: 3, Title: "C", Kind: KindShow},
		{TmdbID: 4, Title: "D", Kind: KindShow},
	}

	got := Reconcile(trending, set(2), set(4))

	if want := []int{1, 3}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Reconcile ids = %v, want %v", ids(got), want)
	}
	for _, item := range got {
		if _, owned := set(2)[item.TmdbID]; owned {
			t.Errorf("owned id %d leaked through", item.TmdbID)
		}
		if _, ignored := set(4)[item.TmdbID]; ignored {
			t.Errorf("ignored id %d leaked through", item.TmdbID)
		}
	}
}

func TestReconcileKeepsFeedOrder(t *testing.T) {
	trending := []Item{
		{TmdbID: 9, Title: "Zeta", Kind: KindMovie},
		{TmdbID: 3, Title: "Alpha", Kind: KindMovie},
		{TmdbID: 7, Title: "Mid", Kind: KindShow},
	}

	got := Reconcile(trending, nil, nil)

	// Feed order, never sorted by title or id.
	if want := []int{9, 3, 7}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("Reconcile ids = %v, want %v", ids(got), want)
	}
}

func TestReconcileFirstOccurrenceWins(t *testing.T) {
	trending := []Item{
		{TmdbID: 5, Title: "Movie Cut", Kind: KindMovie},
		{TmdbID: 6, Title: "Other", Kind: KindMovie},
		{TmdbID: 5, Title: "Show Cut", Kind: KindShow},
	}

	got := Reconcile(trending, nil, nil)

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(got), got)
	}
	if got[0].Title != "Movie Cut" {
		t.Errorf("duplicate id kept %q, want first occurrence", got[0].Title)
	}
}

func TestReconcileDuplicateOfExcludedIDStaysExcluded(t *testing.T) {
	trending := []Item{
		{TmdbID: 5, Title: "A", Kind: KindMovie},
		{TmdbID: 5, Title: "A again", Kind: KindShow},
	}

	got := Reconcile(trending, set(5), nil)

	if len(got) != 0 {
		t.Fatalf("expected no items, got %v", got)
	}
}

func TestReconcileIsPure(t *testing.T) {
	trending := []Item{
		{TmdbID: 1, Title: "A", Kind: KindMovie},
		{TmdbID: 2, Title: "B", Kind: KindShow},
	}
	owned := set(2)
	ignored := set()

	first := Reconcile(trending, owned, ignored)
	second := Reconcile(trending, owned, ignored)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different outputs: %v vs %v", first, second)
	}
}

func TestReconcileEmptyInputs(t *testing.T) {
	if got := Reconcile(nil, nil, nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
