// Package tally counts string keys while remembering the order in which each
// key was first seen, so that ranking ties resolve deterministically.
package tally

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Entry pairs a key with its count.
type Entry struct {
	Key   string
	Count int
}

// Table is an ordered frequency table. It serializes as a JSON object whose
// key order matches the slice order.
type Table []Entry

// Total sums the counts of every entry.
func (t Table) Total() int {
	total := 0
	for _, e := range t {
		total += e.Count
	}
	return total
}

// Get returns the count for key and whether it is present.
func (t Table) Get(key string) (int, bool) {
	for _, e := range t {
		if e.Key == key {
			return e.Count, true
		}
	}
	return 0, false
}

// Keys returns the keys in table order.
func (t Table) Keys() []string {
	keys := make([]string, len(t))
	for i, e := range t {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON writes the table as an object, preserving entry order.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back into a Table, keeping document order.
func (t *Table) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tally: expected object, got %v", tok)
	}

	out := Table{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tally: expected string key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("tally: count for %q: %w", key, err)
		}
		out = append(out, Entry{Key: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = out
	return nil
}

// Counter accumulates counts per key. The zero value is not usable; call New.
type Counter struct {
	order  []string
	counts map[string]int
}

// New returns an empty Counter.
func New() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments the count of each key by one.
func (c *Counter) Add(keys ...string) {
	for _, k := range keys {
		if _, seen := c.counts[k]; !seen {
			c.order = append(c.order, k)
		}
		c.counts[k]++
	}
}

// Count returns the current count for key.
func (c *Counter) Count(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.order)
}

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// MostCommon returns at most n entries ordered by count, highest first.
// Equal counts keep first-seen order. n <= 0 returns every entry.
func (c *Counter) MostCommon(n int) Table {
	out := make(Table, len(c.order))
	for i, k := range c.order {
		out[i] = Entry{Key: k, Count: c.counts[k]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
