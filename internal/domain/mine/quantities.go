package mine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Quantities maps resource ids to non-negative amounts and remembers insertion order.
// Transfers iterate in that order. The zero value is an empty map ready to use.
type Quantities struct {
	order  []string
	amount map[string]float64
}

// Entry is one resource id and its amount.
type Entry struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

// NewQuantities builds a map from entries, in argument order.
func NewQuantities(entries ...Entry) Quantities {
	var q Quantities
	for _, e := range entries {
		q.Add(e.ID, e.Amount)
	}
	return q
}

// Get returns the amount held for id. Absent ids hold zero.
func (q *Quantities) Get(id string) float64 {
	return q.amount[id]
}

// Add credits n units of id. Non-positive n is ignored.
func (q *Quantities) Add(id string, n float64) {
	if n <= 0 {
		return
	}
	if q.amount == nil {
		q.amount = make(map[string]float64)
	}
	if _, ok := q.amount[id]; !ok {
		q.order = append(q.order, id)
	}
	q.amount[id] += n
}

// Take debits up to n units of id and returns what was removed.
// Entries that reach zero are dropped.
func (q *Quantities) Take(id string, n float64) float64 {
	have, ok := q.amount[id]
	if !ok || n <= 0 {
		return 0
	}
	if n > have {
		n = have
	}
	if have-n <= 0 {
		q.remove(id)
	} else {
		q.amount[id] = have - n
	}
	return n
}

func (q *Quantities) remove(id string) {
	delete(q.amount, id)
	for i, k := range q.order {
		if k == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}

// Total sums every entry.
func (q *Quantities) Total() float64 {
	total := 0.0
	for _, v := range q.amount {
		total += v
	}
	return total
}

// IDs returns the held ids in insertion order.
func (q *Quantities) IDs() []string {
	out := make([]string, len(q.order))
	copy(out, q.order)
	return out
}

// Entries returns the held amounts in insertion order.
func (q *Quantities) Entries() []Entry {
	out := make([]Entry, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, Entry{ID: id, Amount: q.amount[id]})
	}
	return out
}

// Len reports the number of held ids.
func (q *Quantities) Len() int {
	return len(q.order)
}

// Empty reports whether nothing is held.
func (q *Quantities) Empty() bool {
	return len(q.order) == 0
}

// Clear drops every entry.
func (q *Quantities) Clear() {
	q.order = nil
	q.amount = nil
}

// Clone returns an independent copy.
func (q Quantities) Clone() Quantities {
	out := Quantities{}
	if len(q.order) == 0 {
		return out
	}
	out.order = make([]string, len(q.order))
	copy(out.order, q.order)
	out.amount = make(map[string]float64, len(q.amount))
	for k, v := range q.amount {
		out.amount[k] = v
	}
	return out
}

// MarshalJSON writes an object whose keys follow insertion order.
func (q Quantities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range q.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(q.amount[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping document key order. Non-positive amounts are dropped.
func (q *Quantities) UnmarshalJSON(data []byte) error {
	q.Clear()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("quantities: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("quantities: expected key, got %v", tok)
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("quantities: value for %q: %w", id, err)
		}
		q.Add(id, v)
	}
	_, err = dec.Token()
	return err
}
