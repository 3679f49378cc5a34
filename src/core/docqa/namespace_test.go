package docqa_test

import (
	"strings"
	"testing"

	"docchat/src/core/docqa"
)

func TestResolveNamespace(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "simple pdf name",
			filename: "report.pdf",
			want:     "report-pdf",
		},
		{
			name:     "uppercase is lowered",
			filename: "Annual Report 2024.PDF",
			want:     "annual-report-2024-pdf",
		},
		{
			name:     "allowed characters survive",
			filename: "my_doc-v2",
			want:     "my_doc-v2",
		},
		{
			name:     "punctuation becomes dashes",
			filename: "a.b(c)!d",
			want:     "a-b-c--d",
		},
		{
			name:     "non-ascii becomes dashes",
			filename: "résumé.pdf",
			want:     "r-sum--pdf",
		},
		{
			name:     "empty filename",
			filename: "",
			want:     "",
		},
		{
			name:     "long name truncated to fifty",
			filename: strings.Repeat("a", 80) + ".pdf",
			want:     strings.Repeat("a", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := docqa.ResolveNamespace(tt.filename)
			if got != tt.want {
				t.Errorf("ResolveNamespace(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestResolveNamespaceIsDeterministic(t *testing.T) {
	first := docqa.ResolveNamespace("Quarterly Report (final).pdf")
	second := docqa.ResolveNamespace("Quarterly Report (final).pdf")
	if first != second {
		t.Errorf("same filename resolved differently: %q vs %q", first, second)
	}
}

func TestResolveNamespaceCharsetAndLength(t *testing.T) {
	inputs := []string{
		"weird\tname\nwith\x00controls.pdf",
		"日本語ドキュメント.pdf",
		strings.Repeat("X-9_", 40),
	}

	for _, in := range inputs {
		ns := docqa.ResolveNamespace(in)
		if len(ns) > docqa.NamespaceMaxLen {
			t.Errorf("ResolveNamespace(%q) length = %d, want <= %d", in, len(ns), docqa.NamespaceMaxLen)
		}
		for _, r := range ns {
			valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
			if !valid {
				t.Errorf("ResolveNamespace(%q) contains invalid rune %q", in, r)
			}
		}
	}
}
