package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Default label column names.
const (
	DefaultIDColumn    = "id"
	DefaultLabelColumn = "label"
)

// LabelOptions configures how a label table is read.
type LabelOptions struct {
	IDColumn    string // Header name of the identifier column (default "id")
	LabelColumn string // Header name of the label column (default "label")
	Comma       rune   // Field delimiter (default ',')
}

func (o LabelOptions) withDefaults() LabelOptions {
	if o.IDColumn == "" {
		o.IDColumn = DefaultIDColumn
	}
	if o.LabelColumn == "" {
		o.LabelColumn = DefaultLabelColumn
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	return o
}

// LabelIndex maps sample identifiers to labels.
//
// Labels are kept as strings; Classes assigns each distinct label a stable
// integer class (its position in the sorted label set). A LabelIndex is
// read-only after loading.
type LabelIndex struct {
	source  string
	labels  map[string]string
	classes []string
	classOf map[string]int
	skipped []RowError
}

// LoadLabels reads a delimited label table from path.
//
// The first row must be a header naming the identifier and label columns;
// column order and extra columns do not matter. Rows that cannot be parsed
// are skipped and reported through SkippedRows. LoadLabels fails only when
// the source cannot be opened or read, or has no usable header, and then
// the error wraps ErrLabelSourceUnreadable.
//
// Example (labels.csv):
//
//	id,breed
//	000bec180eb18c7604dcecc8fe0dba07,boston_bull
//	001513dfcb2ffafc82cccf4d8bbaba97,dingo
func LoadLabels(path string, opts LabelOptions) (*LabelIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Kind: ErrLabelSourceUnreadable, Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	idx, err := readLabels(f, path, opts)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// ReadLabels reads a label table from r. See LoadLabels.
func ReadLabels(r io.Reader, opts LabelOptions) (*LabelIndex, error) {
	return readLabels(r, "<reader>", opts)
}

func readLabels(r io.Reader, source string, opts LabelOptions) (*LabelIndex, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("missing header row")
		}
		return nil, &SourceError{Kind: ErrLabelSourceUnreadable, Op: "read header", Path: source, Err: err}
	}
	idCol, labelCol, err := locateColumns(header, opts)
	if err != nil {
		return nil, &SourceError{Kind: ErrLabelSourceUnreadable, Op: "read header", Path: source, Err: err}
	}
	// Every data row must have as many fields as the header.
	cr.FieldsPerRecord = len(header)

	idx := &LabelIndex{
		source: source,
		labels: make(map[string]string),
	}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, &SourceError{Kind: ErrLabelSourceUnreadable, Op: "read", Path: source, Err: err}
			}
			cause := pe.Err
			if errors.Is(cause, csv.ErrFieldCount) {
				cause = fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(record), len(header))
			}
			idx.skipped = append(idx.skipped, RowError{Line: pe.StartLine, Err: cause})
			continue
		}

		line, _ := cr.FieldPos(0)
		id := strings.TrimSpace(record[idCol])
		label := strings.TrimSpace(record[labelCol])
		switch {
		case id == "":
			idx.skipped = append(idx.skipped, RowError{Line: line, Err: fmt.Errorf("%w: column %q", ErrEmptyValue, opts.IDColumn)})
		case label == "":
			idx.skipped = append(idx.skipped, RowError{Line: line, Err: fmt.Errorf("%w: column %q", ErrEmptyValue, opts.LabelColumn)})
		default:
			if _, dup := idx.labels[id]; dup {
				idx.skipped = append(idx.skipped, RowError{Line: line, Err: fmt.Errorf("%w: %q", ErrDuplicateID, id)})
				continue
			}
			idx.labels[id] = label
		}
	}

	idx.buildClasses()
	return idx, nil
}

func locateColumns(header []string, opts LabelOptions) (int, int, error) {
	idCol, labelCol := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case idCol < 0 && strings.EqualFold(name, opts.IDColumn):
			idCol = i
		case labelCol < 0 && strings.EqualFold(name, opts.LabelColumn):
			labelCol = i
		}
	}
	if idCol < 0 {
		return 0, 0, fmt.Errorf("header %v has no %q column", header, opts.IDColumn)
	}
	if labelCol < 0 {
		return 0, 0, fmt.Errorf("header %v has no %q column", header, opts.LabelColumn)
	}
	return idCol, labelCol, nil
}

func (l *LabelIndex) buildClasses() {
	seen := make(map[string]struct{}, len(l.labels))
	for _, label := range l.labels {
		seen[label] = struct{}{}
	}
	l.classes = make([]string, 0, len(seen))
	for label := range seen {
		l.classes = append(l.classes, label)
	}
	slices.Sort(l.classes)
	l.classOf = make(map[string]int, len(l.classes))
	for i, label := range l.classes {
		l.classOf[label] = i
	}
}

// Source returns the path (or "<reader>") the labels were read from.
func (l *LabelIndex) Source() string {
	return l.source
}

// Len returns the number of identifiers with a label.
func (l *LabelIndex) Len() int {
	return len(l.labels)
}

// Lookup returns the label of id.
func (l *LabelIndex) Lookup(id string) (string, bool) {
	label, ok := l.labels[id]
	return label, ok
}

// IDs returns all labelled identifiers in sorted order.
func (l *LabelIndex) IDs() []string {
	ids := make([]string, 0, len(l.labels))
	for id := range l.labels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Classes returns the sorted set of distinct labels.
func (l *LabelIndex) Classes() []string {
	return slices.Clone(l.classes)
}

// ClassOf returns the class index of a label.
func (l *LabelIndex) ClassOf(label string) (int, bool) {
	c, ok := l.classOf[label]
	return c, ok
}

// Skipped returns the number of rows that were rejected.
func (l *LabelIndex) Skipped() int {
	return len(l.skipped)
}

// SkippedRows returns the rejected rows with their line numbers and causes.
func (l *LabelIndex) SkippedRows() []RowError {
	return slices.Clone(l.skipped)
}
