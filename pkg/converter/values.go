// pkg/converter/values.go
package converter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/David-Botos/raw-to-ready/pkg/model"
)

// ToFloat parses a cell value as a finite number
func ToFloat(s string) (float64, bool) {
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatNumber renders a number with the fewest digits that round-trip
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// InferKind returns KindNumeric when every non-null cell parses as a number.
// A column without rows is text; a column of only nulls is numeric.
func InferKind(cells []model.Cell) model.Kind {
	if len(cells) == 0 {
		return model.KindText
	}
	for _, cell := range cells {
		if !cell.Valid {
			continue
		}
		if _, ok := ToFloat(cell.String); !ok {
			return model.KindText
		}
	}
	return model.KindNumeric
}

// toString converts a driver value to its cell text
func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float32:
		return FormatNumber(float64(val))
	case float64:
		return FormatNumber(val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return fmt.Sprintf("%v", val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	default:
		// Try JSON marshaling for complex types
		jsonBytes, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(jsonBytes)
	}
}
