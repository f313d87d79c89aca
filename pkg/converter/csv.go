// pkg/converter/csv.go
package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

const byteOrderMark = "\ufeff"

// ReadCSV decodes a CSV stream with a header row into a dataset
func ReadCSV(r io.Reader, opts Options) (*model.Dataset, error) {
	return NewTypeConverterWithOptions(zap.L().Named("converter"), opts).Decode(r)
}

// WriteCSV encodes a dataset as CSV with a header row
func WriteCSV(w io.Writer, ds *model.Dataset) error {
	return NewTypeConverter(zap.L().Named("converter")).Encode(w, ds)
}

// Decode reads a CSV stream. Every record must have as many fields as the
// header row; column kinds are inferred once all rows are read.
func (c *TypeConverter) Decode(r io.Reader) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.config.Comma
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Line: 1, Err: ErrMissingHeader}
	}
	if err != nil {
		return nil, toParseError(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	}
	if err := validUTF8(reader, header); err != nil {
		return nil, err
	}

	raw := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toParseError(err)
		}
		if err := validUTF8(reader, record); err != nil {
			return nil, err
		}
		for i, field := range record {
			raw[i] = append(raw[i], field)
		}
	}

	columns := make([]*model.Column, len(header))
	for i, name := range header {
		cells := make([]model.Cell, len(raw[i]))
		for j, value := range raw[i] {
			if c.isNull(value) {
				cells[j] = model.Null()
			} else {
				cells[j] = model.Value(value)
			}
		}
		columns[i] = model.NewColumn(name, InferKind(cells), cells...)
	}

	ds, err := model.NewDataset(columns...)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	c.logger.Debug("Decoded CSV dataset",
		zap.String("source", c.config.Name),
		zap.Int("columns", ds.ColumnCount()),
		zap.Int("rows", ds.RowCount()))
	return ds, nil
}

// Encode writes the dataset as CSV. Nulls are written as empty fields.
func (c *TypeConverter) Encode(w io.Writer, ds *model.Dataset) error {
	if ds == nil {
		return errors.New("dataset cannot be nil")
	}

	writer := csv.NewWriter(w)
	writer.Comma = c.config.Comma

	if err := writer.Write(ds.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, ds.ColumnCount())
	for i := 0; i < ds.RowCount(); i++ {
		for j, col := range ds.Columns {
			record[j] = toField(col.Cells[i])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv writer: %w", err)
	}
	return nil
}

func toField(cell model.Cell) string {
	if !cell.Valid {
		return ""
	}
	return cell.String
}

func toParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: err}
}

func validUTF8(reader *csv.Reader, record []string) error {
	for i, field := range record {
		if !utf8.ValidString(field) {
			line, _ := reader.FieldPos(i)
			return &ParseError{Line: line, Err: ErrInvalidUTF8}
		}
	}
	return nil
}
