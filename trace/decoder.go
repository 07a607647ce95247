package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedRecord is matched by every MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed trace record")

// A MalformedRecordError reports a trace line that cannot be decoded.
type MalformedRecordError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed trace record %q: %s",
		e.Line, e.Text, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedRecord) hold.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ParseLine decodes a single trace line of the form
// `<mode> <hex-address> [<cycle-count>]`.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return Record{}, errors.New("expected 2 or 3 fields")
	}

	rec := Record{}

	mode, err := parseMode(fields[0])
	if err != nil {
		return Record{}, err
	}
	rec.Mode = mode

	addr, err := parseAddress(fields[1])
	if err != nil {
		return Record{}, err
	}
	rec.Page = PageKeyOf(addr)

	if len(fields) == 3 {
		cycles, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("bad cycle count %q", fields[2])
		}

		rec.Cycles = cycles
		rec.HasCycles = true
	}

	return rec, nil
}

func parseMode(s string) (AccessMode, error) {
	switch s {
	case "l", "L":
		return Load, nil
	case "s", "S":
		return Store, nil
	default:
		return Load, fmt.Errorf("unknown access mode %q", s)
	}
}

func parseAddress(s string) (uint64, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return 0, fmt.Errorf("bad address %q", s)
	}

	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}

	return addr, nil
}

// A Source produces records one at a time. Next returns io.EOF after the last
// record.
type Source interface {
	Next() (Record, error)
}

// MaxLineLength is the longest trace line a Decoder accepts, in bytes.
const MaxLineLength = 64 * 1024

// A Decoder reads records from a line-oriented text stream.
type Decoder struct {
	scanner *bufio.Scanner
	line    int

	// RequireCycles makes a line without a cycle count malformed.
	RequireCycles bool
}

// NewDecoder creates a Decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)

	return &Decoder{
		scanner: scanner,
	}
}

// Next decodes the next non-blank line.
func (d *Decoder) Next() (Record, error) {
	for d.scanner.Scan() {
		d.line++

		text := d.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := ParseLine(text)
		if err != nil {
			return Record{}, &MalformedRecordError{
				Line:   d.line,
				Text:   text,
				Reason: err.Error(),
			}
		}

		if d.RequireCycles && !rec.HasCycles {
			return Record{}, &MalformedRecordError{
				Line:   d.line,
				Text:   text,
				Reason: "missing cycle count",
			}
		}

		return rec, nil
	}

	err := d.scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return Record{}, &MalformedRecordError{
			Line:   d.line + 1,
			Reason: fmt.Sprintf("line longer than %d bytes", MaxLineLength),
		}
	}

	if err != nil {
		return Record{}, fmt.Errorf("reading trace: %w", err)
	}

	return Record{}, io.EOF
}

// Line returns the number of lines consumed so far.
func (d *Decoder) Line() int {
	return d.line
}

// SliceSource replays records held in memory.
type SliceSource struct {
	records []Record
	next    int
}

// NewSliceSource creates a Source over records.
func NewSliceSource(records []Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record in the slice.
func (s *SliceSource) Next() (Record, error) {
	if s.next >= len(s.records) {
		return Record{}, io.EOF
	}

	rec := s.records[s.next]
	s.next++

	return rec, nil
}

// Rewind restarts the replay from the first record.
func (s *SliceSource) Rewind() {
	s.next = 0
}

// LoadAll drains src into memory. Memory use grows linearly with the length of
// the trace.
func LoadAll(src Source) ([]Record, error) {
	var records []Record

	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}
}
