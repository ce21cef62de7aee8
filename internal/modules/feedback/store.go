package feedback

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Columns is the on-disk header of the feedback file.
var Columns = []string{"id", "timestamp", "name", "relationship", "rating", "comment", "can_publish", "approved"}

// Store persists the full feedback set.
type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
	Append(ctx context.Context, record Record) error
}

// CSVStore keeps records in a single CSV file. Save replaces the whole file;
// concurrent load/modify/save cycles are last-writer-wins. The mutex only keeps
// single file operations from interleaving.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string { return s.path }

// Bootstrap creates an empty file with the header row when none exists.
func (s *CSVStore) Bootstrap(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.writeAtomic(nil)
}

func (s *CSVStore) Load(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, err
	}
	defer f.Close()

	return decode(f)
}

func (s *CSVStore) Save(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeAtomic(records)
}

func (s *CSVStore) Append(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if err := s.writeAtomic(nil); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	w := newWriter(&buf)
	if err := w.Write(encodeRecord(record)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *CSVStore) writeAtomic(records []Record) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	extra := extraColumns(records)
	w := newWriter(tmp)
	if err := w.Write(append(append([]string{}, Columns...), extra...)); err != nil {
		_ = tmp.Close()
		return err
	}
	for _, r := range records {
		if err := w.Write(append(encodeRecord(r), r.extraValues(extra)...)); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

func decode(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	index := make(map[string]int, len(header))
	var unknown []int
	for i, h := range header {
		if _, dup := index[h]; dup {
			continue
		}
		index[h] = i
		if !knownColumn(h) {
			unknown = append(unknown, i)
		}
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := []Record{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := Record{
			ID:           field(row, "id"),
			Name:         field(row, "name"),
			Relationship: field(row, "relationship"),
			Comment:      field(row, "comment"),
			CanPublish:   field(row, "can_publish") == "yes",
			Approved:     field(row, "approved") == "yes",
		}

		rawRating := field(row, "rating")
		if n, err := strconv.Atoi(strings.TrimSpace(rawRating)); err == nil {
			rec.Rating = n
		} else {
			rec.rawRating = rawRating
		}

		rawTS := field(row, "timestamp")
		if ts, ok := parseTimestamp(rawTS); ok {
			rec.CreatedAt = ts
		} else {
			rec.rawTimestamp = rawTS
		}

		for _, i := range unknown {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			rec.extra = append(rec.extra, cell{column: header[i], value: v})
		}
		records = append(records, rec)
	}
	return records, nil
}

func knownColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// extraColumns lists the unknown columns carried by records, in first-seen order.
func extraColumns(records []Record) []string {
	var cols []string
	seen := map[string]bool{}
	for _, r := range records {
		for _, c := range r.extra {
			if !seen[c.column] {
				seen[c.column] = true
				cols = append(cols, c.column)
			}
		}
	}
	return cols
}

func (r Record) extraValues(cols []string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		for _, c := range r.extra {
			if c.column == col {
				out[i] = c.value
				break
			}
		}
	}
	return out
}

func encodeRecord(r Record) []string {
	ts := formatTimestamp(r.CreatedAt)
	if r.CreatedAt.IsZero() {
		ts = r.rawTimestamp
	}
	rating := strconv.Itoa(r.Rating)
	if r.rawRating != "" && r.Rating == 0 {
		rating = r.rawRating
	}
	return []string{
		r.ID,
		ts,
		r.Name,
		r.Relationship,
		rating,
		r.Comment,
		yesNo(r.CanPublish),
		yesNo(r.Approved),
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Truncate(time.Second).Format(time.RFC3339)
}

func parseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
