package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"FundDashboard/internal/view"
)

// TableRows returns the wide table: one row per date, one column per series,
// values as two-decimal strings and empty for missing values.
func TableRows(v *view.View) (header []string, rows [][]string) {
	header = append([]string{"Dato"}, v.Series...)
	if v.Empty || v.Rebased == nil {
		return header, nil
	}
	for i, d := range v.Rebased.Dates {
		row := make([]string, 0, len(header))
		row = append(row, FormatDate(d))
		for _, name := range v.Series {
			cell := v.Rebased.Series(name)[i]
			if val, ok := cell.Value(); ok {
				row = append(row, FormatPercent(val))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}

// TableMarkdown renders the wide table as a GitHub-flavored markdown table.
func TableMarkdown(v *view.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if v.Empty {
		doc.PlainText(v.EmptyMessage)
		return doc.String()
	}

	header, rows := TableRows(v)
	align := make([]md.TableAlignment, len(header))
	align[0] = md.AlignLeft
	for i := 1; i < len(align); i++ {
		align[i] = md.AlignRight
	}
	for i := range header {
		header[i] = escapeCell(header[i])
	}
	doc.Table(md.TableSet{
		Alignment: align,
		Header:    header,
		Rows:      rows,
	})
	return doc.String()
}

// markdownEscaper backslash-escapes markdown punctuation so a series name is
// rendered literally.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`, "!", `\!`, "~", `\~`,
)

func escapeCell(s string) string {
	return markdownEscaper.Replace(s)
}

var htmlMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// TableHTML renders the wide table as an HTML fragment.
func TableHTML(v *view.View) (string, error) {
	var buf bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(TableMarkdown(v)), &buf); err != nil {
		return "", fmt.Errorf("convert table: %w", err)
	}
	return buf.String(), nil
}

// TableTerminal renders the wide table for a terminal using the given glamour
// style ("auto", "dark", "light", "notty", ...).
func TableTerminal(v *view.View, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(TableMarkdown(v))
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return out, nil
}
