package book

// Registry owns every instrument book. It is built once at startup and
// never resized; instrument ids are indexes into it.
type Registry struct {
	books []*InstrumentBook
}

func NewRegistry(instruments, sideCapacity int) *Registry {
	books := make([]*InstrumentBook, instruments)
	for i := range books {
		books[i] = NewInstrumentBook(i, sideCapacity)
	}
	return &Registry{books: books}
}

func (r *Registry) Book(instrument int) (*InstrumentBook, bool) {
	if instrument < 0 || instrument >= len(r.books) {
		return nil, false
	}
	return r.books[instrument], true
}

func (r *Registry) Len() int {
	return len(r.books)
}
