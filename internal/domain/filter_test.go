package domain

import "testing"

func TestIdeaFilter_Normalize_Defaults(t *testing.T) {
	t.Parallel()

	var f IdeaFilter
	f.Normalize()

	if f.SortBy != "created_at" {
		t.Errorf("SortBy: got %q, want created_at", f.SortBy)
	}
	if f.SortOrder != "DESC" {
		t.Errorf("SortOrder: got %q, want DESC", f.SortOrder)
	}
	if f.Page != 1 {
		t.Errorf("Page: got %d, want 1", f.Page)
	}
	if f.PageSize != 10 {
		t.Errorf("PageSize: got %d, want 10", f.PageSize)
	}
}

func TestIdeaFilter_Normalize_RejectsUnknownSortColumn(t *testing.T) {
	t.Parallel()

	f := IdeaFilter{SortBy: "creator_id; DROP TABLE ideas", SortOrder: "sideways"}
	f.Normalize()

	if f.SortBy != "created_at" {
		t.Errorf("SortBy: got %q, want created_at", f.SortBy)
	}
	if f.SortOrder != "DESC" {
		t.Errorf("SortOrder: got %q, want DESC", f.SortOrder)
	}
}

func TestIdeaFilter_Normalize_ClampsPageSize(t *testing.T) {
	t.Parallel()

	f := IdeaFilter{PageSize: 5000, Page: 3}
	f.Normalize()

	if f.PageSize != 100 {
		t.Errorf("PageSize: got %d, want 100", f.PageSize)
	}
	if f.Offset() != 200 {
		t.Errorf("Offset: got %d, want 200", f.Offset())
	}
}

func TestPage_Pages(t *testing.T) {
	t.Parallel()

	p := Page[int]{PageSize: 10, Total: 25}
	if p.Pages() != 3 {
		t.Errorf("Pages: got %d, want 3", p.Pages())
	}

	empty := Page[int]{PageSize: 10, Total: 0}
	if empty.Pages() != 0 {
		t.Errorf("Pages: got %d, want 0", empty.Pages())
	}
}
