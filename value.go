package preprocessor

import "time"

// ValueKind discriminates the payload carried by a Value.
type ValueKind int

const (
	// ValueNone represents an absent or error sample.
	ValueNone ValueKind = iota
	ValueNumeric
	ValueUint64
	ValueText
	ValueLog
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumeric:
		return "numeric"
	case ValueUint64:
		return "uint64"
	case ValueText:
		return "text"
	case ValueLog:
		return "log"
	default:
		return "none"
	}
}

// LogMeta carries the metadata a log-kind Value adds on top of its text.
type LogMeta struct {
	Source     string
	Severity   int
	LogEventID int
}

// Value is a discriminated sample as produced by an item poller or by a
// preprocessing step. Exactly one of Numeric/Uint64/Text is meaningful,
// selected by Kind; Log additionally populates LogMeta. A Kind of ValueNone
// represents "no value" (error/discard), independent of Result.Err.
type Value struct {
	Kind      ValueKind
	Numeric   float64
	Uint64    uint64
	Text      string
	Log       LogMeta
	Timestamp time.Time
}

// NewNumericValue constructs a numeric Value.
func NewNumericValue(v float64, ts time.Time) Value {
	return Value{Kind: ValueNumeric, Numeric: v, Timestamp: ts}
}

// NewUint64Value constructs an unsigned 64-bit Value.
func NewUint64Value(v uint64, ts time.Time) Value {
	return Value{Kind: ValueUint64, Uint64: v, Timestamp: ts}
}

// NewTextValue constructs a text Value.
func NewTextValue(v string, ts time.Time) Value {
	return Value{Kind: ValueText, Text: v, Timestamp: ts}
}

// NewLogValue constructs a log Value: text plus originating metadata.
func NewLogValue(text string, meta LogMeta, ts time.Time) Value {
	return Value{Kind: ValueLog, Text: text, Log: meta, Timestamp: ts}
}

// NoneValue is the canonical "no value" sample, used for discards and
// not-supported results.
func NoneValue(ts time.Time) Value {
	return Value{Kind: ValueNone, Timestamp: ts}
}
