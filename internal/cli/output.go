package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mickamy/databinge/orm"
)

// OutputFormatter renders records as text lines or a JSON envelope.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope for command output.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// Records writes one line per instance in text mode, or a JSON array of
// attribute maps.
func (f *OutputFormatter) Records(insts []*orm.Instance) error {
	if f.Format == "json" {
		data := make([]map[string]any, len(insts))
		for i, inst := range insts {
			data[i] = inst.Map()
		}
		return f.json(data)
	}
	for _, inst := range insts {
		fmt.Fprintln(f.Writer, formatRecord(inst))
	}
	return nil
}

// Record writes a single instance.
func (f *OutputFormatter) Record(inst *orm.Instance) error {
	if f.Format == "json" {
		return f.json(inst.Map())
	}
	fmt.Fprintln(f.Writer, formatRecord(inst))
	return nil
}

// Value writes any other result.
func (f *OutputFormatter) Value(v any) error {
	if f.Format == "json" {
		return f.json(v)
	}
	if ss, ok := v.([]string); ok {
		fmt.Fprintln(f.Writer, strings.Join(ss, "\n"))
		return nil
	}
	fmt.Fprintln(f.Writer, v)
	return nil
}

func (f *OutputFormatter) json(data any) error {
	return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data}) //nolint:wrapcheck // pass through
}

func formatRecord(inst *orm.Instance) string {
	cols := inst.Columns()
	vals := inst.Values()
	parts := make([]string, len(cols))
	for i, c := range cols {
		if vals[i] == nil {
			parts[i] = c + "=NULL"
			continue
		}
		parts[i] = fmt.Sprintf("%s=%v", c, vals[i])
	}
	return strings.Join(parts, " ")
}
