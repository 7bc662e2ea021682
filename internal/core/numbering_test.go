package core_test

import (
	"testing"

	"invoicedesk/internal/core"
)

func TestFormatDocumentNumber(t *testing.T) {
	tests := []struct {
		prefix string
		year   int
		seq    int64
		want   string
	}{
		{"QT", 2024, 8, "QT-2024-0008"},
		{"INV", 2026, 1, "INV-2026-0001"},
		{"BOQ", 2026, 123, "BOQ-2026-0123"},
		{"QT", 2026, 99999, "QT-2026-99999"},
	}

	for _, tt := range tests {
		if got := core.FormatDocumentNumber(tt.prefix, tt.year, tt.seq); got != tt.want {
			t.Errorf("FormatDocumentNumber(%q, %d, %d) = %q, want %q", tt.prefix, tt.year, tt.seq, got, tt.want)
		}
	}
}
