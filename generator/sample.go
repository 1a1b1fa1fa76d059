package generator

import (
	"strconv"
)

// Sample is a single generated data point.
type Sample struct {
	// Variable is the name the plotting client groups values under
	Variable string
	// TimestampMS is the wall-clock time of generation in milliseconds
	TimestampMS int64
	// Value is the generated value
	Value float64
}

// Marshal renders the two-line UDP payload consumed by the plotting
// client: a Graphite-style tagged line followed by the bare value, both
// newline terminated. The client expects both lines, so the redundancy
// is kept on purpose.
func (s Sample) Marshal() []byte {
	value := strconv.FormatFloat(s.Value, 'g', -1, 64)

	buf := make([]byte, 0, len(s.Variable)+2*len(value)+32)
	buf = append(buf, '>')
	buf = append(buf, s.Variable...)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, s.TimestampMS, 10)
	buf = append(buf, ':')
	buf = append(buf, value...)
	buf = append(buf, "|g\n"...)
	buf = append(buf, value...)
	buf = append(buf, '\n')
	return buf
}
