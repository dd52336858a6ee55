package pagination

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        PaginationParams
		wantPage  int
		wantLimit int
	}{
		{"zero values fall back to defaults", PaginationParams{}, 1, DefaultLimit},
		{"negative page", PaginationParams{Page: -3, Limit: 20}, 1, 20},
		{"limit capped", PaginationParams{Page: 2, Limit: 500}, 2, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", p.Page, p.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	p := &PaginationParams{Page: 2, Limit: 10}
	start, end := p.Window(25)
	if start != 10 || end != 20 {
		t.Fatalf("page 2 of 25: got [%d,%d)", start, end)
	}

	p.Page = 3
	start, end = p.Window(25)
	if start != 20 || end != 25 {
		t.Fatalf("page 3 of 25: got [%d,%d)", start, end)
	}

	p.Page = 9
	start, end = p.Window(25)
	if start != 25 || end != 25 {
		t.Fatalf("page past the end should be empty, got [%d,%d)", start, end)
	}
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 25)
	if pag.TotalPages != 3 || !pag.HasNext || !pag.HasPrev {
		t.Fatalf("unexpected pagination %+v", pag)
	}

	empty := NewPagination(1, 10, 0)
	if empty.TotalPages != 1 || empty.HasNext {
		t.Fatalf("empty result should report a single page, got %+v", empty)
	}
}
