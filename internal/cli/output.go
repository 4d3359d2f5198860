package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"sigs.k8s.io/yaml"

	pkgstrings "github.com/giantswarm/authsession/pkg/strings"
)

// OutputFormat represents the different output formats available.
type OutputFormat string

const (
	// OutputFormatTable formats output as a styled table
	OutputFormatTable OutputFormat = "table"
	// OutputFormatJSON formats output as indented JSON
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML formats output as YAML
	OutputFormatYAML OutputFormat = "yaml"
)

// maxCellWidth bounds table cells; longer values are truncated.
const maxCellWidth = 100

// ValidOutputFormats contains all valid output format values.
var ValidOutputFormats = []OutputFormat{
	OutputFormatTable,
	OutputFormatJSON,
	OutputFormatYAML,
}

// ValidateOutputFormat validates that the given format string is a supported output format.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
	}
}

// Printer writes command results in the selected format. When a template
// is set it takes precedence over the format.
type Printer struct {
	out       io.Writer
	format    OutputFormat
	noHeaders bool
	template  string
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, format OutputFormat, noHeaders bool) *Printer {
	if format == "" {
		format = OutputFormatTable
	}
	return &Printer{out: out, format: format, noHeaders: noHeaders}
}

// WithTemplate sets a Go template (with sprig functions) used instead of
// the output format.
func (p *Printer) WithTemplate(tmpl string) *Printer {
	p.template = tmpl
	return p
}

// PrintKeyValues prints a flat object. Tables list one key per row in
// sorted order.
func (p *Printer) PrintKeyValues(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []any{text.FgHiCyan.Sprint(k), formatCell(data[k])})
	}
	return p.PrintObject(data, []string{"KEY", "VALUE"}, rows)
}

// PrintObject prints v through the template, JSON or YAML, or prints the
// given rows when the format is table.
func (p *Printer) PrintObject(v any, headers []string, rows [][]any) error {
	if p.template != "" {
		return p.PrintTemplate(v)
	}

	switch p.format {
	case OutputFormatJSON:
		return p.PrintJSON(v)
	case OutputFormatYAML:
		return p.PrintYAML(v)
	default:
		p.PrintTable(headers, rows)
		return nil
	}
}

// PrintTable renders rows as a rounded table.
func (p *Printer) PrintTable(headers []string, rows [][]any) {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)

	if !p.noHeaders {
		header := make(table.Row, len(headers))
		for i, h := range headers {
			header[i] = text.FgHiCyan.Sprint(h)
		}
		t.AppendHeader(header)
	}
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	t.Render()
}

// PrintJSON prints v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format as JSON: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

// PrintYAML prints v as YAML. Field names follow json tags.
func (p *Printer) PrintYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to format as YAML: %w", err)
	}
	_, err = p.out.Write(data)
	return err
}

// PrintTemplate executes the printer's template with v as data.
func (p *Printer) PrintTemplate(v any) error {
	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Parse(p.template)
	if err != nil {
		return fmt.Errorf("failed to parse output template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return fmt.Errorf("failed to execute output template: %w", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	_, err = p.out.Write(buf.Bytes())
	return err
}

func formatCell(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		s = ""
	case string:
		s = val
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			s = fmt.Sprintf("%v", val)
		} else {
			s = string(data)
		}
	default:
		s = fmt.Sprintf("%v", val)
	}
	return pkgstrings.Truncate(s, maxCellWidth)
}

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return text.FgRed.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return text.FgGreen.Sprint("✓") + " " + msg
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return text.FgYellow.Sprint("⚠") + " " + msg
}
