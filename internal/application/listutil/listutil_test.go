package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams_Defaults verifies default page params when no query values provided.
func TestParsePageParams_Defaults(t *testing.T) {
	p := ParsePageParams(url.Values{})
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected per_page %d, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestParsePageParams_Valid verifies correct parsing of valid page and per_page values.
func TestParsePageParams_Valid(t *testing.T) {
	p := ParsePageParams(url.Values{"page": {"3"}, "per_page": {"50"}})
	if p.Page != 3 || p.PerPage != 50 {
		t.Errorf("got page %d per_page %d, want 3 50", p.Page, p.PerPage)
	}
}

// TestParsePageParams_Rejected verifies out-of-range values fall back to defaults.
func TestParsePageParams_Rejected(t *testing.T) {
	p := ParsePageParams(url.Values{"page": {"-1"}, "per_page": {"20"}})
	if p.Page != 1 {
		t.Errorf("expected page 1 for negative input, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected default per_page %d for unlisted value, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestParseSortParams verifies column allow-listing and direction defaults.
func TestParseSortParams(t *testing.T) {
	allowed := []string{"username", "expiry"}
	tests := []struct {
		name     string
		q        url.Values
		wantSort string
		wantDir  string
	}{
		{"valid", url.Values{"sort": {"expiry"}, "dir": {"desc"}}, "expiry", "desc"},
		{"disallowed column", url.Values{"sort": {"password_hash"}}, "", "asc"},
		{"invalid dir", url.Values{"sort": {"username"}, "dir": {"DROP TABLE"}}, "username", "asc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseSortParams(tt.q, allowed)
			if s.Sort != tt.wantSort || s.Dir != tt.wantDir {
				t.Errorf("got %q %q, want %q %q", s.Sort, s.Dir, tt.wantSort, tt.wantDir)
			}
		})
	}
}

// TestParseFilterParams verifies search and filter extraction from query values.
func TestParseFilterParams(t *testing.T) {
	q := url.Values{"q": {"  smith "}, "plan": {"gold"}, "unknown": {"x"}}
	f := ParseFilterParams(q, []string{"plan", "status"})
	if f.Search != "smith" {
		t.Errorf("expected search=smith, got %q", f.Search)
	}
	if f.Filters["plan"] != "gold" {
		t.Errorf("expected plan=gold, got %s", f.Filters["plan"])
	}
	if _, ok := f.Filters["unknown"]; ok {
		t.Error("unexpected filter key 'unknown'")
	}
}

func TestFilterParams_Matches(t *testing.T) {
	f := FilterParams{Search: "SMI"}
	if !f.Matches("jane", "jane.smith@example.com") {
		t.Error("case-insensitive substring should match")
	}
	if f.Matches("jane", "jane@example.com") {
		t.Error("unrelated fields should not match")
	}
	if !(FilterParams{}).Matches("anything") {
		t.Error("empty search should match everything")
	}
}

func TestListParams_Query(t *testing.T) {
	p := ListParams{
		PageParams:   PageParams{Page: 2, PerPage: DefaultPerPage},
		SortParams:   SortParams{Sort: "expiry", Dir: "desc"},
		FilterParams: FilterParams{Search: "ann", Filters: map[string]string{"plan": "p1"}},
	}
	if got, want := p.Query(3), "?dir=desc&page=3&plan=p1&q=ann&sort=expiry"; got != want {
		t.Errorf("Query(3) = %q, want %q", got, want)
	}
	if got := (ListParams{}).Query(1); got != "?" {
		t.Errorf("empty Query = %q, want ?", got)
	}
}

func TestListParams_SortQuery(t *testing.T) {
	p := ListParams{SortParams: SortParams{Sort: "username", Dir: "asc"}}
	if got, want := p.SortQuery("username"), "?dir=desc&sort=username"; got != want {
		t.Errorf("same column: %q, want %q", got, want)
	}
	if got, want := p.SortQuery("expiry"), "?dir=asc&sort=expiry"; got != want {
		t.Errorf("new column: %q, want %q", got, want)
	}
}

// TestNewPageInfo verifies pagination metadata computation.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		perPage    int
		total      int
		wantPages  int
		wantPage   int
		wantStart  int
		wantEnd    int
		wantOffset int
	}{
		{"basic", 1, 25, 85, 4, 1, 1, 25, 0},
		{"page2", 2, 25, 85, 4, 2, 26, 50, 25},
		{"lastPage", 4, 25, 85, 4, 4, 76, 85, 75},
		{"pageBeyondTotal", 10, 25, 85, 4, 4, 76, 85, 75},
		{"emptyList", 1, 25, 0, 1, 1, 0, 0, 0},
		{"exactFit", 1, 10, 10, 1, 1, 1, 10, 0},
		{"zeroPerPage", 1, 0, 3, 1, 1, 1, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, tt.perPage, tt.total)
			if pi.TotalPages != tt.wantPages {
				t.Errorf("TotalPages: got %d, want %d", pi.TotalPages, tt.wantPages)
			}
			if pi.Page != tt.wantPage {
				t.Errorf("Page: got %d, want %d", pi.Page, tt.wantPage)
			}
			if pi.StartRow() != tt.wantStart {
				t.Errorf("StartRow: got %d, want %d", pi.StartRow(), tt.wantStart)
			}
			if pi.EndRow() != tt.wantEnd {
				t.Errorf("EndRow: got %d, want %d", pi.EndRow(), tt.wantEnd)
			}
			if pi.Offset() != tt.wantOffset {
				t.Errorf("Offset: got %d, want %d", pi.Offset(), tt.wantOffset)
			}
		})
	}
}

// TestPageNumbers verifies page number window generation.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name string
		page int
		tot  int
		want []int
	}{
		{"3pages_at1", 1, 3, []int{1, 2, 3}},
		{"10pages_at1", 1, 10, []int{1, 2, 3, 4, 5}},
		{"10pages_at5", 5, 10, []int{3, 4, 5, 6, 7}},
		{"10pages_at10", 10, 10, []int{6, 7, 8, 9, 10}},
		{"1page", 1, 1, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageInfo(tt.page, 10, tt.tot*10).PageNumbers()
			if len(got) != len(tt.want) {
				t.Fatalf("PageNumbers length: got %d, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("PageNumbers[%d]: got %d, want %d", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		page int
		want []int
	}{
		{1, []int{1, 2, 3}},
		{3, []int{7}},
		{9, []int{7}}, // clamped to the last page
	}
	for _, tt := range tests {
		got := Window(items, NewPageInfo(tt.page, 3, len(items)))
		if len(got) != len(tt.want) {
			t.Fatalf("page %d: got %v, want %v", tt.page, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("page %d: got %v, want %v", tt.page, got, tt.want)
			}
		}
	}
	if got := Window([]int(nil), NewPageInfo(1, 3, 0)); len(got) != 0 {
		t.Errorf("empty: got %v", got)
	}
}

// TestShowPagination verifies pagination visibility logic.
func TestShowPagination(t *testing.T) {
	if NewPageInfo(1, 10, 10).ShowPagination() {
		t.Error("should not show pagination when total == perPage")
	}
	if !NewPageInfo(1, 10, 11).ShowPagination() {
		t.Error("should show pagination when total > perPage")
	}
}
