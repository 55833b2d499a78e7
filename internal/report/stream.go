package report

import "sync"

// RowStream is a single-pass, forward-only row sequence. The producer pushes
// over an unbuffered channel, so it never runs ahead of the consumer: each
// row is handed over only when the consumer asks for it.
//
// Close abandons the stream; the producer side exits without error and any
// undelivered rows are discarded. Close is idempotent and safe to call
// concurrently with Next.
type RowStream struct {
	ch   chan Row
	done chan struct{}
	once sync.Once
}

// NewRowStream starts a producer goroutine draining rows into the stream.
func NewRowStream(rows []Row) *RowStream {
	s := &RowStream{
		ch:   make(chan Row),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.ch)
		for _, row := range rows {
			// Checked first so an abandoned stream stops before the
			// next handoff is even offered.
			select {
			case <-s.done:
				return
			default:
			}
			select {
			case s.ch <- row:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Next returns the next row. ok is false once the stream is exhausted
// or closed.
func (s *RowStream) Next() (Row, bool) {
	row, ok := <-s.ch
	return row, ok
}

// Close releases the producer. Remaining rows are dropped.
func (s *RowStream) Close() {
	s.once.Do(func() { close(s.done) })
}

// Drain consumes the remainder of the stream into a slice. Intended for
// buffered renderers and tests; defeats the purpose of streaming otherwise.
func (s *RowStream) Drain() []Row {
	var rows []Row
	for {
		row, ok := s.Next()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}
