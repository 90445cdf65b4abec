package main

import (
	"strings"
	"testing"
)

func TestRenderTableRightAlignsNumericColumn(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Count"},
		[][]string{{"alpha", "3"}, {"beta", "12"}},
		1)

	lines := strings.Split(out, "\n")
	var alpha, beta string
	for _, line := range lines {
		if strings.Contains(line, "alpha") {
			alpha = line
		}
		if strings.Contains(line, "beta") {
			beta = line
		}
	}
	if alpha == "" || beta == "" {
		t.Fatalf("rows missing from output:\n%s", out)
	}
	if strings.Index(alpha, "3") != strings.Index(beta, "12")+1 {
		t.Fatalf("count column not right-aligned:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B", "C"},
		[][]string{{"only"}})
	if !strings.Contains(out, "only") {
		t.Fatalf("row cell missing:\n%s", out)
	}
	if strings.Contains(out, "<nil>") {
		t.Fatalf("missing cells rendered as nil:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Fatalf("renderTable(nil, nil) = %q, want empty", out)
	}
}
