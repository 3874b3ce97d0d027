package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/chronolab/chronopack/pkg/series"
)

// jsonlEntry mirrors one JSON Lines record on disk. Missing target values
// are encoded as null, which become NaN in the loaded array.
type jsonlEntry struct {
	ItemID          string       `json:"item_id"`
	Start           string       `json:"start"`
	Freq            string       `json:"freq"`
	Target          []*float64   `json:"target"`
	FeatDynamicReal [][]*float64 `json:"feat_dynamic_real"`
}

// entryLoc locates one record inside the backing files and caches its
// target length for cheap weight computation.
type entryLoc struct {
	file   int
	offset int64
	length int
}

// JSONL is a lazily-loaded Source backed by JSON Lines files. The files are
// scanned once at open time to build an offset index (with item ids and
// target lengths); record arrays are parsed on each access and never cached.
type JSONL struct {
	paths   []string
	index   []entryLoc
	itemIDs []string
	freq    string
}

// OpenJSONL indexes all files matching the glob pattern.
func OpenJSONL(pattern string) (*JSONL, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("dataset: glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("dataset: no files match pattern %q", pattern)
	}

	d := &JSONL{paths: paths}
	for fileIdx, path := range paths {
		if err := d.scanFile(fileIdx, path); err != nil {
			return nil, fmt.Errorf("dataset: indexing %s: %w", path, err)
		}
	}
	return d, nil
}

// scanFile records the byte offset, item id and target length of every line.
func (d *JSONL) scanFile(fileIdx int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var offset int64
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 1 {
			var entry jsonlEntry
			if jerr := json.Unmarshal(line, &entry); jerr != nil {
				return fmt.Errorf("line at offset %d: %w", offset, jerr)
			}
			d.index = append(d.index, entryLoc{file: fileIdx, offset: offset, length: len(entry.Target)})
			d.itemIDs = append(d.itemIDs, entry.ItemID)
			if d.freq == "" {
				d.freq = entry.Freq
			}
		}
		offset += int64(len(line))
		if err != nil {
			return nil // io.EOF included; partial final line already handled
		}
	}
}

// Len returns the number of indexed records.
func (d *JSONL) Len() int { return len(d.index) }

// Freq returns the frequency tag of the first record, usually shared by the
// whole dataset.
func (d *JSONL) Freq() string { return d.freq }

// ItemID returns the identifier of record i. Identifiers stay in the index;
// records carry only numeric fields.
func (d *JSONL) ItemID(i int) string { return d.itemIDs[i] }

// Lengths returns the target length of every record, from the index.
func (d *JSONL) Lengths() []int {
	out := make([]int, len(d.index))
	for i, loc := range d.index {
		out[i] = loc.length
	}
	return out
}

// At loads and parses record i from disk.
func (d *JSONL) At(i int) (series.Record, error) {
	if i < 0 || i >= len(d.index) {
		return nil, fmt.Errorf("dataset: index %d out of range [0, %d)", i, len(d.index))
	}
	loc := d.index[i]

	f, err := os.Open(d.paths[loc.file])
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", d.paths[loc.file], err)
	}
	defer f.Close()

	if _, err := f.Seek(loc.offset, 0); err != nil {
		return nil, fmt.Errorf("dataset: seek %s: %w", d.paths[loc.file], err)
	}
	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("dataset: read %s at offset %d: %w", d.paths[loc.file], loc.offset, err)
	}

	var entry jsonlEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil, fmt.Errorf("dataset: parse %s at offset %d: %w", d.paths[loc.file], loc.offset, err)
	}
	return entryToRecord(entry)
}

// Select loads the records at the given indices.
func (d *JSONL) Select(indices []int) ([]series.Record, error) {
	return selectFrom(d, indices)
}

// entryToRecord converts a parsed line into a record: the target as a
// float32 sequence (nulls become NaN), the start timestamp as Unix seconds,
// and dynamic features transposed from the on-disk (C, T) layout to the
// time-axis-first (T, C) layout.
func entryToRecord(entry jsonlEntry) (series.Record, error) {
	start, err := parseStart(entry.Start)
	if err != nil {
		return nil, fmt.Errorf("dataset: field %q: %w", series.FieldStart, err)
	}

	target := make([]float32, len(entry.Target))
	for i, v := range entry.Target {
		if v == nil {
			target[i] = float32(math.NaN())
		} else {
			target[i] = float32(*v)
		}
	}

	rec := series.Record{
		series.FieldTarget: series.FromFloat32(target, len(target)),
		series.FieldStart:  series.Int64Scalar(start.Unix()),
	}

	if len(entry.FeatDynamicReal) > 0 {
		channels := len(entry.FeatDynamicReal)
		steps := len(entry.FeatDynamicReal[0])
		buf := make([]float32, steps*channels)
		for c, channel := range entry.FeatDynamicReal {
			if len(channel) != steps {
				return nil, fmt.Errorf("dataset: feat_dynamic_real channel %d has length %d, want %d",
					c, len(channel), steps)
			}
			for t, v := range channel {
				if v == nil {
					buf[t*channels+c] = float32(math.NaN())
				} else {
					buf[t*channels+c] = float32(*v)
				}
			}
		}
		rec["feat_dynamic_real"] = series.FromFloat32(buf, steps, channels)
	}
	return rec, nil
}

// startLayouts are accepted timestamp formats, most specific first.
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

func parseStart(s string) (time.Time, error) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
