package report

import (
	"io"
	"strings"
)

// WriteCSV writes t with every field wrapped in double quotes and embedded
// quotes doubled. Rows are separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, t Table) error {
	var b strings.Builder
	writeRow(&b, t.Header)
	for _, row := range t.Rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
