// pkg/converter/mapping.go
package converter

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// numericTypes are database type names whose values are always numbers
var numericTypes = map[string]bool{
	"NUMBER":           true,
	"NUMERIC":          true,
	"DECIMAL":          true,
	"FIXED":            true,
	"REAL":             true,
	"FLOAT":            true,
	"FLOAT4":           true,
	"FLOAT8":           true,
	"DOUBLE":           true,
	"DOUBLE PRECISION": true,
	"INT":              true,
	"INT2":             true,
	"INT4":             true,
	"INT8":             true,
	"INTEGER":          true,
	"SMALLINT":         true,
	"BIGINT":           true,
}

// getBaseType extracts the base type from a complex type definition
func getBaseType(fullType string) string {
	parts := strings.Split(fullType, "(")
	return strings.ToUpper(strings.TrimSpace(parts[0]))
}

// MapDatabaseType returns the storage kind for a database column type.
// The second result is false when the type does not decide the kind and it
// must be inferred from the values.
func MapDatabaseType(dbType string) (model.Kind, bool) {
	if numericTypes[getBaseType(dbType)] {
		return model.KindNumeric, true
	}
	return model.KindText, false
}

// FromRows reads every row of a query result into a dataset
func FromRows(rows *sql.Rows) (*model.Dataset, error) {
	return NewTypeConverter(zap.L().Named("converter")).FromRows(rows)
}

// FromRows reads every row of a query result into a dataset. The caller
// still owns rows and must close it.
func (c *TypeConverter) FromRows(rows *sql.Rows) (*model.Dataset, error) {
	if rows == nil {
		return nil, errors.New("rows cannot be nil")
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	cells := make([][]model.Cell, len(columnTypes))
	values := make([]interface{}, len(columnTypes))
	pointers := make([]interface{}, len(columnTypes))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if v == nil {
				cells[i] = append(cells[i], model.Null())
				continue
			}
			s := toString(v)
			if c.isNull(s) {
				cells[i] = append(cells[i], model.Null())
				continue
			}
			cells[i] = append(cells[i], model.Value(s))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	columns := make([]*model.Column, len(columnTypes))
	for i, ct := range columnTypes {
		kind, decided := MapDatabaseType(ct.DatabaseTypeName())
		if !decided {
			kind = InferKind(cells[i])
		}
		if len(cells[i]) == 0 {
			cells[i] = []model.Cell{}
		}
		columns[i] = model.NewColumn(ct.Name(), kind, cells[i]...)
	}

	ds, err := model.NewDataset(columns...)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}

	c.logger.Debug("Decoded query result",
		zap.String("source", c.config.Name),
		zap.Int("columns", ds.ColumnCount()),
		zap.Int("rows", ds.RowCount()))
	return ds, nil
}
