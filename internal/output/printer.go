// Package output provides formatted terminal output for fossflow commands.
// This centralizes all printing and formatting logic away from command modules.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/n1rna/fossflow-cli/internal/collection"
	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/shell"
	"github.com/n1rna/fossflow-cli/internal/usage"
)

// Format represents different output formats
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use table or json)", s)
	}
}

// Printer handles formatted output to the terminal
type Printer struct {
	writer io.Writer
	format Format
	quiet  bool
	now    func() time.Time
}

// NewPrinter creates a new printer with the specified format
func NewPrinter(format Format, quiet bool) *Printer {
	return NewPrinterWithWriter(os.Stdout, format, quiet)
}

// NewPrinterWithWriter creates a new printer with a custom writer
func NewPrinterWithWriter(writer io.Writer, format Format, quiet bool) *Printer {
	return &Printer{
		writer: writer,
		format: format,
		quiet:  quiet,
		now:    time.Now,
	}
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "✓ %s\n", message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.writer, "✗ %s\n", message)
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "⚠ %s\n", message)
	}
}

// Info prints an informational message
func (p *Printer) Info(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "ℹ %s\n", message)
	}
}

// Notify prints a shell notice with the marker for its kind. It makes the
// printer usable as a shell.Notifier for one-shot commands.
func (p *Printer) Notify(n shell.Notice) {
	switch n.Kind {
	case shell.NoticeError:
		p.Error(n.Message)
	case shell.NoticeWarning:
		p.Warning(n.Message)
	default:
		p.Info(n.Message)
	}
}

// PrintDiagramList prints saved diagrams in collection order
func (p *Printer) PrintDiagramList(records []collection.Record) error {
	switch p.format {
	case FormatTable:
		return p.printDiagramListTable(records)
	case FormatJSON:
		type summary struct {
			ID        string    `json:"id"`
			Name      string    `json:"name"`
			Items     int       `json:"items"`
			CreatedAt time.Time `json:"createdAt"`
			UpdatedAt time.Time `json:"updatedAt"`
		}
		out := make([]summary, 0, len(records))
		for _, r := range records {
			out = append(out, summary{r.ID, r.Name, len(r.Data.Items), r.CreatedAt, r.UpdatedAt})
		}
		return p.printJSON(out)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintDiagram prints one saved diagram
func (p *Printer) PrintDiagram(r collection.Record) error {
	switch p.format {
	case FormatTable:
		return p.printDiagramTable(r)
	case FormatJSON:
		return p.printJSON(r)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintUsage prints a storage usage report
func (p *Printer) PrintUsage(r usage.Report) error {
	switch p.format {
	case FormatTable:
		return p.printUsageTable(r)
	case FormatJSON:
		return p.printJSON(struct {
			usage.Report
			Percent float64     `json:"percent"`
			Level   usage.Level `json:"level"`
		}{r, r.Percent(), r.Level()})
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintIcons prints icon descriptors
func (p *Printer) PrintIcons(icons []diagram.Icon) error {
	switch p.format {
	case FormatTable:
		return p.printIconsTable(icons)
	case FormatJSON:
		return p.printJSON(icons)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) printDiagramListTable(records []collection.Record) error {
	if len(records) == 0 {
		fmt.Fprintf(p.writer, "No saved diagrams\n")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tID\tITEMS\tUPDATED\n")
	fmt.Fprintf(w, "----\t--\t-----\t-------\n")

	for _, r := range records {
		name := r.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			name,
			r.ID,
			len(r.Data.Items),
			humanize.RelTime(r.UpdatedAt, p.now(), "ago", "from now"),
		)
	}

	return w.Flush()
}

func (p *Printer) printDiagramTable(r collection.Record) error {
	fmt.Fprintf(p.writer, "Diagram: %s\n", r.Name)
	fmt.Fprintf(p.writer, "ID: %s\n", r.ID)
	fmt.Fprintf(p.writer, "Title: %s\n", r.Data.TitleOr(diagram.DefaultTitle))
	if r.Data.Description != nil && *r.Data.Description != "" {
		fmt.Fprintf(p.writer, "Description: %s\n", *r.Data.Description)
	}
	fmt.Fprintf(p.writer, "Created: %s\n", r.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(p.writer, "Updated: %s\n", r.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(p.writer, "Items: %d\n", len(r.Data.Items))
	fmt.Fprintf(p.writer, "Views: %d\n", len(r.Data.Views))

	fmt.Fprintf(p.writer, "\nColors:\n")
	if len(r.Data.Colors) == 0 {
		fmt.Fprintf(p.writer, "  No colors defined\n")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID\tVALUE\n")
	fmt.Fprintf(w, "  --\t-----\n")
	for _, c := range r.Data.Colors {
		fmt.Fprintf(w, "  %s\t%s\n", c.ID, c.Value)
	}
	return w.Flush()
}

func (p *Printer) printUsageTable(r usage.Report) error {
	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Used:\t%s\t(%.1f%%, %s)\n", usage.FormatBytes(r.Used), r.Percent(), r.Level())
	fmt.Fprintf(w, "Diagrams:\t%s\n", usage.FormatBytes(r.Diagrams))
	fmt.Fprintf(w, "Other:\t%s\n", usage.FormatBytes(r.Other))
	fmt.Fprintf(w, "Capacity:\t%s\n", usage.FormatBytes(r.Capacity))
	return w.Flush()
}

func (p *Printer) printIconsTable(icons []diagram.Icon) error {
	if len(icons) == 0 {
		fmt.Fprintf(p.writer, "No icons found\n")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tCOLLECTION\n")
	fmt.Fprintf(w, "--\t----\t----------\n")
	for _, icon := range icons {
		fmt.Fprintf(w, "%s\t%s\t%s\n", icon.ID, icon.Name, icon.Collection)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(p.writer, "\n%s icons\n", humanize.Comma(int64(len(icons))))
	return nil
}

// printJSON prints any object as JSON
func (p *Printer) printJSON(obj interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(obj)
}
