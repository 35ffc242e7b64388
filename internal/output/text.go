package output

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/dl/hypergrep/internal/scan"
)

// TextFormatter formats results as human-readable text with optional color.
type TextFormatter struct {
	styles      Styles
	lineNumbers bool
	countOnly   bool
	filesOnly   bool
	useColor    bool
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(styles Styles, lineNumbers, countOnly, filesOnly, useColor bool) *TextFormatter {
	return &TextFormatter{
		styles:      styles,
		lineNumbers: lineNumbers,
		countOnly:   countOnly,
		filesOnly:   filesOnly,
		useColor:    useColor,
	}
}

func (f *TextFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	if f.filesOnly {
		if result.HasMatch() {
			buf = f.appendStyled(buf, f.styles.Filename, result.FilePath)
			buf = append(buf, '\n')
		}
		return buf
	}

	if f.countOnly {
		if multiFile {
			buf = f.appendStyled(buf, f.styles.Filename, result.FilePath)
			buf = f.appendStyled(buf, f.styles.Separator, ":")
		}
		buf = strconv.AppendInt(buf, int64(result.MatchCount()), 10)
		buf = append(buf, '\n')
		return buf
	}

	for _, rec := range result.Records {
		buf = f.formatLine(buf, result.FilePath, rec, multiFile)
	}
	return buf
}

func (f *TextFormatter) formatLine(buf []byte, filePath string, rec scan.Record, multiFile bool) []byte {
	if multiFile {
		buf = f.appendStyled(buf, f.styles.Filename, filePath)
		buf = f.appendStyled(buf, f.styles.Separator, ":")
	}

	if f.lineNumbers {
		if f.useColor {
			buf = append(buf, f.styles.LineNum.Render(strconv.Itoa(rec.Line))...)
		} else {
			buf = strconv.AppendInt(buf, int64(rec.Line), 10)
		}
		buf = f.appendStyled(buf, f.styles.Separator, ":")
	}

	buf = append(buf, rec.Text...)
	buf = append(buf, '\n')
	return buf
}

func (f *TextFormatter) appendStyled(buf []byte, style lipgloss.Style, s string) []byte {
	if f.useColor {
		return append(buf, style.Render(s)...)
	}
	return append(buf, s...)
}

// Ensure TextFormatter implements Formatter.
var _ Formatter = (*TextFormatter)(nil)
