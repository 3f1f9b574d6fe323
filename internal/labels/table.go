package labels

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Iron-Ham/framelabel/internal/errors"
	"github.com/Iron-Ham/framelabel/internal/frames"
)

// Column names of the persisted table, in file order.
const (
	ColumnBatch   = "Batch"
	ColumnSubject = "Subject"
)

// Field names one of the two label columns.
type Field string

// Label fields.
const (
	FieldTimeAlive     Field = "time alive"
	FieldMetamorphosis Field = "time of metamorphosis"
)

// Fields lists the label fields in column order.
func Fields() []Field {
	return []Field{FieldTimeAlive, FieldMetamorphosis}
}

// Header returns the table header in file order.
func Header() []string {
	return []string{ColumnBatch, ColumnSubject, string(FieldTimeAlive), string(FieldMetamorphosis)}
}

// ParseField resolves a column name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.NewValidationError("unknown label field").
		WithField("field").
		WithValue(name).
		WithCause(errors.ErrUnknownField)
}

// Value is a label cell: either unset or a frame number.
type Value struct {
	Frame int
	Set   bool
}

// FrameValue returns a set Value holding frame.
func FrameValue(frame int) Value {
	return Value{Frame: frame, Set: true}
}

// String renders the cell as written to the file.
func (v Value) String() string {
	if !v.Set {
		return ""
	}
	return strconv.Itoa(v.Frame)
}

// Row is one line of the table.
type Row struct {
	Batch         string
	Subject       string
	TimeAlive     Value
	Metamorphosis Value
}

// Get returns the value of field.
func (r Row) Get(field Field) Value {
	if field == FieldMetamorphosis {
		return r.Metamorphosis
	}
	return r.TimeAlive
}

// set stores v in field and returns the previous value.
func (r *Row) set(field Field, v Value) Value {
	switch field {
	case FieldMetamorphosis:
		old := r.Metamorphosis
		r.Metamorphosis = v
		return old
	default:
		old := r.TimeAlive
		r.TimeAlive = v
		return old
	}
}

// Labeled reports whether time alive has been recorded.
func (r Row) Labeled() bool {
	return r.TimeAlive.Set
}

func (r Row) record() []string {
	return []string{r.Batch, r.Subject, r.TimeAlive.String(), r.Metamorphosis.String()}
}

type rowKey struct {
	batch   string
	subject string
}

func (r Row) key() rowKey {
	return rowKey{batch: r.Batch, subject: r.Subject}
}

// decode parses a table from r. path is used only for error context.
// Columns may appear in any order; rows must be unique by (Batch, Subject).
func decode(r io.Reader, path string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header())

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, corrupt(path, 1, "missing header", nil)
		}
		return nil, corrupt(path, 1, "cannot read header", err)
	}
	positions, err := columnPositions(header)
	if err != nil {
		return nil, corrupt(path, 1, err.Error(), nil)
	}

	var rows []Row
	seen := make(map[rowKey]int)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return nil, corrupt(path, line, "cannot read row", err)
		}
		line, _ := cr.FieldPos(0)

		row := Row{
			Batch:   record[positions[ColumnBatch]],
			Subject: record[positions[ColumnSubject]],
		}
		for _, field := range Fields() {
			cell := record[positions[string(field)]]
			v, err := parseCell(cell)
			if err != nil {
				return nil, corrupt(path, line, "invalid "+string(field)+" cell", err).
					WithKey(row.Batch, row.Subject)
			}
			row.set(field, v)
		}

		if first, dup := seen[row.key()]; dup {
			return nil, corrupt(path, line, "duplicate row, first seen on line "+strconv.Itoa(first), nil).
				WithKey(row.Batch, row.Subject)
		}
		seen[row.key()] = line
		rows = append(rows, row)
	}
	return rows, nil
}

func columnPositions(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		positions[name] = i
	}
	for _, want := range Header() {
		if _, ok := positions[want]; !ok {
			return nil, errors.New("header must be " + strings.Join(Header(), ","))
		}
	}
	return positions, nil
}

// parseCell reads a label cell. Empty means unset; integral decimals such as
// "3.0" are accepted. Values beyond frames.MaxNumber are rejected however they
// are written.
func parseCell(cell string) (Value, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Value{}, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	outOfRange := errors.Is(err, strconv.ErrRange)
	if err != nil && !outOfRange {
		return Value{}, err
	}
	if math.IsNaN(f) {
		return Value{}, nil
	}
	if (math.IsInf(f, 0) && !outOfRange) || f != math.Trunc(f) {
		return Value{}, errors.New("not a frame number: " + cell)
	}
	if math.Abs(f) > frames.MaxNumber {
		return Value{}, errors.New("frame number out of range: " + cell)
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return FrameValue(n), nil
	}
	return FrameValue(int(f)), nil
}

// encode writes rows to w with the fixed header.
func encode(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func corrupt(path string, line int, msg string, cause error) *errors.StoreError {
	if cause != nil {
		cause = errors.Join(errors.ErrStoreCorrupt, cause)
	} else {
		cause = errors.ErrStoreCorrupt
	}
	return errors.NewStoreError(msg, cause).WithPath(path).WithLine(line)
}
