package views

import "testing"

func TestPaginatorNavigation(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(25)

	if p.TotalPages() != 3 {
		t.Errorf("TotalPages() = %d, want 3", p.TotalPages())
	}
	if p.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d, want 1", p.CurrentPage())
	}

	start, end := p.VisibleRange()
	if start != 0 || end != 10 {
		t.Errorf("VisibleRange() = %d,%d, want 0,10", start, end)
	}

	if !p.NextPage() {
		t.Fatal("NextPage() = false, want true")
	}
	if p.Cursor() != 10 || p.CurrentPage() != 2 {
		t.Errorf("after NextPage cursor=%d page=%d, want 10 and 2", p.Cursor(), p.CurrentPage())
	}

	p.NextPage()
	start, end = p.VisibleRange()
	if start != 20 || end != 25 {
		t.Errorf("last page VisibleRange() = %d,%d, want 20,25", start, end)
	}
	if p.NextPage() {
		t.Error("NextPage() past the end should return false")
	}

	if !p.PrevPage() {
		t.Fatal("PrevPage() = false, want true")
	}
	if p.CurrentPage() != 2 {
		t.Errorf("after PrevPage CurrentPage() = %d, want 2", p.CurrentPage())
	}
}

func TestPaginatorCursorFollowsPages(t *testing.T) {
	p := NewPaginator(5)
	p.SetTotal(12)

	for i := 0; i < 7; i++ {
		p.CursorDown()
	}
	if p.Cursor() != 7 {
		t.Fatalf("Cursor() = %d, want 7", p.Cursor())
	}
	if p.PageOffset() != 5 {
		t.Errorf("PageOffset() = %d, want 5", p.PageOffset())
	}
	if p.CursorInPage() != 2 {
		t.Errorf("CursorInPage() = %d, want 2", p.CursorInPage())
	}

	p.SetCursor(11)
	if p.PageOffset() != 10 {
		t.Errorf("PageOffset() after SetCursor(11) = %d, want 10", p.PageOffset())
	}
	if p.CursorDown() {
		t.Error("CursorDown() at the last item should return false")
	}
}

func TestPaginatorClampsOnShrink(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(30)
	p.SetCursor(25)

	p.SetTotal(8)
	if p.Cursor() != 7 {
		t.Errorf("Cursor() after shrink = %d, want 7", p.Cursor())
	}
	if p.PageOffset() != 0 {
		t.Errorf("PageOffset() after shrink = %d, want 0", p.PageOffset())
	}

	p.Reset()
	if p.Cursor() != 0 || p.TotalPages() != 1 {
		t.Errorf("after Reset cursor=%d pages=%d, want 0 and 1", p.Cursor(), p.TotalPages())
	}
}
