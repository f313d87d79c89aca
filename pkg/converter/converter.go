// pkg/converter/converter.go
package converter

import (
	"go.uber.org/zap"
)

// TypeConverter decodes tabular input into datasets and encodes them back
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config Options
}

// Options provides configuration options for decoding and encoding
type Options struct {
	// Field delimiter, ',' when zero
	Comma rune
	// Cell values decoded as null. Matched exactly, without trimming.
	NullTokens []string
	// Source name carried into logs and metadata
	Name string
}

// DefaultNullTokens are the cell values decoded as null by default.
// "N/A" is not among them so the fill_na sentinel survives a round trip.
var DefaultNullTokens = []string{"", "NA", "NaN", "nan", "null", "NULL", "None", "nil"}

// DefaultOptions returns the default configuration
func DefaultOptions() Options {
	return Options{
		Comma:      ',',
		NullTokens: DefaultNullTokens,
	}
}

func (o Options) withDefaults() Options {
	if o.Comma == 0 {
		o.Comma = ','
	}
	if o.NullTokens == nil {
		o.NullTokens = DefaultNullTokens
	}
	return o
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger) *TypeConverter {
	return NewTypeConverterWithOptions(logger, DefaultOptions())
}

// NewTypeConverterWithOptions creates a TypeConverter with custom configuration
func NewTypeConverterWithOptions(logger *zap.Logger, opts Options) *TypeConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypeConverter{
		logger: logger,
		config: opts.withDefaults(),
	}
}

func (c *TypeConverter) isNull(s string) bool {
	for _, token := range c.config.NullTokens {
		if s == token {
			return true
		}
	}
	return false
}
