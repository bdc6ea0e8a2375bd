package pdf

import (
	"bytes"
	"testing"
	"time"
)

func sampleTable() Table {
	return Table{
		Title:       "Relatório de Premiações",
		GeneratedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local),
		Columns: []Column{
			{Header: "Funcionário", Width: 3},
			{Header: "Horas", Width: 1, Right: true},
			{Header: "Horas extras", Width: 1, Right: true},
			{Header: "Pernoites", Width: 1, Right: true},
		},
		Rows: [][]string{
			{"José da Silva", "180", "30", "2"},
			{"Maria Souza", "140", "0", "0"},
		},
		Footer: []string{"Total", "320", "30", "2"},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(sampleTable())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 8)])
	}
	if len(out) < 500 {
		t.Errorf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderManyPages(t *testing.T) {
	table := sampleTable()
	table.Rows = nil
	for i := 0; i < 200; i++ {
		table.Rows = append(table.Rows, []string{"Pessoa", "10", "0", "0"})
	}
	out, err := Render(table)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// 200 rows at 7mm cannot fit one landscape A4 page.
	if !bytes.Contains(out, []byte("/Count ")) {
		t.Error("no page tree in output")
	}
	if len(out) < 2000 {
		t.Errorf("multi-page render too small: %d bytes", len(out))
	}
}

func TestRenderShortRowAndNoColumns(t *testing.T) {
	table := sampleTable()
	table.Rows = [][]string{{"only one cell"}}
	if _, err := Render(table); err != nil {
		t.Errorf("short row should pad, got %v", err)
	}

	if _, err := Render(Table{Title: "empty"}); err == nil {
		t.Error("no columns should be an error")
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
