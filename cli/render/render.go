// Package render provides centralized output rendering for the
// braket-devices CLI.
//
// Format selection rules:
//   - If output is a TTY, default to table
//   - If output is not a TTY, default to json
//   - --format flag always overrides defaults
//   - Invalid formats are errors
//
// Color handling:
//   - --no-color affects table output only
//   - TUI mode is unaffected by --no-color (uses its own styling)
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/braket-devices/cli/tui"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer creates a renderer from CLI context.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	// Apply default format based on TTY detection
	if format == "" {
		if isTTY(os.Stdout) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}

	return &Renderer{
		format:  format,
		noColor: c.Bool("no-color"),
		out:     os.Stdout,
	}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
	}
}

// Format returns the selected format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render outputs the data in the configured format.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(data)
	case FormatTable:
		return r.renderTable(data)
	case FormatYAML:
		return r.renderYAML(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderTUI initiates TUI mode for the given view type.
// TUI is opt-in only and read-only only.
func (r *Renderer) RenderTUI(ctx context.Context, viewType string, data any) error {
	if !tui.IsTUISupported(viewType) {
		return fmt.Errorf("--tui is not supported for %s", viewType)
	}
	return tui.Run(ctx, viewType, data)
}

func (r *Renderer) renderJSON(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// renderYAML goes through JSON so that keys follow the json tags, which
// every API type carries.
func (r *Renderer) renderYAML(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Renderer) renderTable(data any) error {
	switch d := data.(type) {
	case Tabular:
		return r.writeTable(d.Table())
	case Sectioned:
		return r.writeSections(d.Sections())
	}

	// Anything else renders through its json field names.
	v := reflect.Indirect(reflect.ValueOf(data))
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return r.writeTable(sliceTable(v))
	case reflect.Struct, reflect.Map:
		return r.writeFields(fieldsOf(v))
	default:
		_, err := fmt.Fprintf(r.out, "%v\n", data)
		return err
	}
}

func (r *Renderer) writeTable(t Table) error {
	if len(t.Rows) == 0 {
		fmt.Fprintln(r.out, "(no results)")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		cells := row
		if !r.noColor && t.StatusColumn >= 0 && t.StatusColumn < len(row) {
			cells = append([]string(nil), row...)
			cells[t.StatusColumn] = tui.StatusStyle(row[t.StatusColumn]).Render(row[t.StatusColumn])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

func (r *Renderer) writeSections(sections []Section) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, s.Title)
		if len(s.Rows) == 0 {
			fmt.Fprintf(w, "  %s\n", s.Empty)
			continue
		}
		for _, row := range s.Rows {
			fmt.Fprintf(w, "  %s:\t%s\n", row[0], row[1])
		}
	}
	return w.Flush()
}

func (r *Renderer) writeFields(fields []field) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(w, "%s:\t%s\n", f.name, f.value)
	}
	return w.Flush()
}

// maxCell is the longest string shown in a generic table cell; longer
// strings (e.g. raw properties documents) are replaced by their size.
const maxCell = 80

type field struct {
	name  string
	value string
}

// sliceTable builds a table with one row per element; headers come from
// the first element.
func sliceTable(v reflect.Value) Table {
	t := Table{StatusColumn: -1}
	for i := range v.Len() {
		fields := fieldsOf(v.Index(i))
		row := make([]string, 0, len(fields))
		for _, f := range fields {
			if i == 0 {
				t.Headers = append(t.Headers, strings.ToUpper(f.name))
			}
			row = append(row, f.value)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// fieldsOf lists the json-named fields of a struct (embedded structs
// without a tag are flattened) or the sorted entries of a map. Any other
// value is a single "value" field.
func fieldsOf(v reflect.Value) []field {
	v = deref(v)
	switch v.Kind() {
	case reflect.Struct:
		var out []field
		t := v.Type()
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			fv := v.Field(i)
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			switch {
			case name == "-":
				continue
			case name == "" && sf.Anonymous && deref(fv).Kind() == reflect.Struct:
				out = append(out, fieldsOf(fv)...)
				continue
			case name == "":
				name = strings.ToLower(sf.Name)
			}
			out = append(out, field{name: name, value: cell(fv)})
		}
		return out
	case reflect.Map:
		out := make([]field, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out = append(out, field{name: fmt.Sprint(iter.Key().Interface()), value: cell(iter.Value())})
		}
		slices.SortFunc(out, func(a, b field) int { return strings.Compare(a.name, b.name) })
		return out
	default:
		return []field{{name: "value", value: cell(v)}}
	}
}

// cell formats one value for a table cell. Nested collections are
// summarised by size.
func cell(v reflect.Value) string {
	v = deref(v)
	if !v.IsValid() {
		return ""
	}
	if t, ok := v.Interface().(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		return "{...}"
	case reflect.String:
		if s := v.String(); len(s) > maxCell {
			return fmt.Sprintf("(%d bytes)", len(s))
		}
	}
	return fmt.Sprint(v.Interface())
}

// deref unwraps pointers and interfaces. A nil pointer yields the zero
// Value.
func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// isTTY returns true if the writer is a TTY.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
