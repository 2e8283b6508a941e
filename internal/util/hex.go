package util

import (
	"fmt"
	"strings"
)

// FormatHexTable renders data as a table with 16 bytes per row,
// prefixed by the offset of the first byte in that row.
func FormatHexTable(data []byte) string {
	var builder strings.Builder
	builder.WriteString("       ")
	for i := 0; i < 16; i++ {
		builder.WriteString(fmt.Sprintf(" %02X", i))
	}
	builder.WriteString("\n")

	for offset := 0; offset < len(data); offset += 16 {
		builder.WriteString(fmt.Sprintf(" %04X ", offset))
		for i := offset; i < offset+16 && i < len(data); i++ {
			builder.WriteString(fmt.Sprintf(" %02X", data[i]))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
