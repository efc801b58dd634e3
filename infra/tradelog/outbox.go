package tradelog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
)

// -------------------- State --------------------

type State uint8

const (
	StateNew State = iota
	StateSent
	StateAcked
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	default:
		return "UNKNOWN"
	}
}

// -------------------- Record --------------------

// Record is one trade report awaiting (or past) delivery. Payload is
// the encoded trade event; the surrounding fields track delivery.
type Record struct {
	Seq         uint64
	State       State
	Retries     uint32
	LastAttempt int64
	Payload     []byte
}

var errCorruptRecord = errors.New("tradelog: corrupt record")

// binary encoding: [state:1][retries:4][lastAttempt:8][payload...]
func encodeRecord(r Record) []byte {
	buf := make([]byte, 1+4+8+len(r.Payload))
	buf[0] = byte(r.State)
	binary.BigEndian.PutUint32(buf[1:5], r.Retries)
	binary.BigEndian.PutUint64(buf[5:13], uint64(r.LastAttempt))
	copy(buf[13:], r.Payload)
	return buf
}

func decodeRecord(b []byte) (Record, error) {
	if len(b) < 13 {
		return Record{}, errCorruptRecord
	}
	return Record{
		State:       State(b[0]),
		Retries:     binary.BigEndian.Uint32(b[1:5]),
		LastAttempt: int64(binary.BigEndian.Uint64(b[5:13])),
		Payload:     append([]byte(nil), b[13:]...),
	}, nil
}

// -------------------- Outbox --------------------

// Outbox is the durable trade-report log. The matching path appends
// records in state NEW; the broadcaster walks pending records, marks
// them SENT around the publish and ACKED on confirmation. Records
// survive restarts so a report is delivered at least once.
type Outbox struct {
	db  *pebble.DB
	seq atomic.Uint64
}

func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false, // we WANT durability
	})
	if err != nil {
		return nil, err
	}

	o := &Outbox{db: db}
	if err := o.restoreSeq(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return o, nil
}

// restoreSeq resumes the sequence after the highest persisted record.
func (o *Outbox) restoreSeq() error {
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	if iter.Last() && iter.Valid() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			return err
		}
		o.seq.Store(seq)
	}
	return iter.Error()
}

func (o *Outbox) Close() error {
	return o.db.Close()
}

// -------------------- API --------------------

// Append stores a new pending record and returns its sequence.
func (o *Outbox) Append(payload []byte) (uint64, error) {
	seq := o.seq.Add(1)
	rec := Record{
		State:   StateNew,
		Payload: payload,
	}
	if err := o.db.Set(keyFor(seq), encodeRecord(rec), pebble.Sync); err != nil {
		return 0, err
	}
	return seq, nil
}

// Get returns the record for a sequence.
func (o *Outbox) Get(seq uint64) (Record, error) {
	val, closer, err := o.db.Get(keyFor(seq))
	if err != nil {
		return Record{}, err
	}
	defer closer.Close()

	rec, err := decodeRecord(val)
	if err != nil {
		return Record{}, err
	}
	rec.Seq = seq
	return rec, nil
}

// MarkSent advances a record to SENT and counts the attempt.
func (o *Outbox) MarkSent(seq uint64) error {
	return o.mark(seq, StateSent, true)
}

// MarkAcked advances a record to ACKED.
func (o *Outbox) MarkAcked(seq uint64) error {
	return o.mark(seq, StateAcked, false)
}

func (o *Outbox) mark(seq uint64, state State, attempt bool) error {
	rec, err := o.Get(seq)
	if err != nil {
		return err
	}
	rec.State = state
	rec.LastAttempt = time.Now().UnixNano()
	if attempt {
		rec.Retries++
	}
	return o.db.Set(keyFor(seq), encodeRecord(rec), pebble.Sync)
}

// Delete removes a record (cleanup of ACKED entries).
func (o *Outbox) Delete(seq uint64) error {
	return o.db.Delete(keyFor(seq), pebble.Sync)
}

// -------------------- Scan --------------------

// ScanPending iterates every record not yet ACKED, in sequence order.
func (o *Outbox) ScanPending(fn func(Record) error) error {
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		rec, err := decodeRecord(iter.Value())
		if err != nil {
			return err
		}
		if rec.State == StateAcked {
			continue
		}
		if rec.Seq, err = parseKey(iter.Key()); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

// -------------------- Helpers --------------------

const keyPrefix = "trade/"

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, seq))
}

func parseKey(b []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(b, []byte(keyPrefix))), "%d", &seq)
	return seq, err
}
