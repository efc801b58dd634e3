package book

import "testing"

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(8, 4)
	if r.Len() != 8 {
		t.Fatalf("expected 8 books, got %d", r.Len())
	}

	for i := 0; i < 8; i++ {
		ib, ok := r.Book(i)
		if !ok || ib.Instrument() != i {
			t.Fatalf("lookup %d failed", i)
		}
	}

	for _, id := range []int{-1, 8, 1024} {
		if _, ok := r.Book(id); ok {
			t.Fatalf("out-of-range instrument %d resolved", id)
		}
	}
}

func TestRegistryBooksAreIndependent(t *testing.T) {
	r := NewRegistry(2, 4)
	a, _ := r.Book(0)
	b, _ := r.Book(1)

	if err := a.Append(NewOrder(1, 0, Buy, 100, 1)); err != nil {
		t.Fatal(err)
	}
	if b.SideBook(Buy).Len() != 0 {
		t.Fatal("order leaked into another instrument's book")
	}
}
