package tradelog

import (
	"bytes"
	"fmt"
	"testing"
)

func openTestOutbox(t *testing.T, dir string) *Outbox {
	t.Helper()
	o, err := Open(dir)
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestAppendAndGet(t *testing.T) {
	o := openTestOutbox(t, t.TempDir())

	seq, err := o.Append([]byte(`{"qty":5}`))
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	rec, err := o.Get(seq)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.State != StateNew || rec.Retries != 0 {
		t.Fatalf("fresh record in wrong state: %+v", rec)
	}
	if !bytes.Equal(rec.Payload, []byte(`{"qty":5}`)) {
		t.Fatalf("payload mismatch: %q", rec.Payload)
	}
}

func TestMarkTransitions(t *testing.T) {
	o := openTestOutbox(t, t.TempDir())

	seq, err := o.Append([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}

	if err := o.MarkSent(seq); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	rec, _ := o.Get(seq)
	if rec.State != StateSent || rec.Retries != 1 || rec.LastAttempt == 0 {
		t.Fatalf("after MarkSent: %+v", rec)
	}

	if err := o.MarkSent(seq); err != nil {
		t.Fatal(err)
	}
	if rec, _ = o.Get(seq); rec.Retries != 2 {
		t.Fatalf("retries not counted: %+v", rec)
	}

	if err := o.MarkAcked(seq); err != nil {
		t.Fatalf("mark acked: %v", err)
	}
	if rec, _ = o.Get(seq); rec.State != StateAcked {
		t.Fatalf("after MarkAcked: %+v", rec)
	}
	if !bytes.Equal(rec.Payload, []byte("payload")) {
		t.Fatal("payload lost across state updates")
	}
}

func TestScanPendingSkipsAcked(t *testing.T) {
	o := openTestOutbox(t, t.TempDir())

	var seqs []uint64
	for i := 0; i < 5; i++ {
		seq, err := o.Append([]byte(fmt.Sprintf("trade-%d", i)))
		if err != nil {
			t.Fatal(err)
		}
		seqs = append(seqs, seq)
	}
	if err := o.MarkAcked(seqs[1]); err != nil {
		t.Fatal(err)
	}
	if err := o.MarkAcked(seqs[3]); err != nil {
		t.Fatal(err)
	}

	var got []uint64
	err := o.ScanPending(func(rec Record) error {
		got = append(got, rec.Seq)
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := []uint64{seqs[0], seqs[2], seqs[4]}
	if len(got) != len(want) {
		t.Fatalf("pending seqs %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pending seqs %v, want %v", got, want)
		}
	}
}

func TestReopenResumesSequence(t *testing.T) {
	dir := t.TempDir()

	o, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	first, err := o.Append([]byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Close(); err != nil {
		t.Fatal(err)
	}

	o = openTestOutbox(t, dir)
	second, err := o.Append([]byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	if second <= first {
		t.Fatalf("sequence reused after reopen: %d then %d", first, second)
	}
}

func TestDelete(t *testing.T) {
	o := openTestOutbox(t, t.TempDir())

	seq, err := o.Append([]byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Delete(seq); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := o.Get(seq); err == nil {
		t.Fatal("deleted record still readable")
	}
}
