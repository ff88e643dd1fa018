package sheet

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"anomarpg/internal/game"
)

func loadCatalog(t *testing.T) *game.Catalog {
	t.Helper()
	c, err := game.LoadCatalog(filepath.Join("..", "..", "data", "catalog.yaml"))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return c
}

func TestGenerate_ReturnsPDF(t *testing.T) {
	c := loadCatalog(t)
	st := game.NewState(c)
	st.Companion = true

	b, err := Generate(st, c, []string{"A Forest Slime appears!", "You hit Forest Slime for 16 damage!"}, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(b) < 100 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_EmptyPlayer(t *testing.T) {
	c := loadCatalog(t)
	b, err := Generate(game.State{}, c, nil, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_NilCatalog(t *testing.T) {
	if _, err := Generate(game.State{}, nil, nil, Options{}); err == nil {
		t.Error("Expected error for nil catalog")
	}
}

func TestPackLines(t *testing.T) {
	got := packLines([]string{"Mana Scroll", "Healing Potion", "Healing Potion"})
	want := []string{"Healing Potion x 2", "Mana Scroll"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestWavyRectPoints_Count(t *testing.T) {
	pts := wavyRectPoints(0, 0, 100, 100, 12, 4)
	if len(pts) != 12*4+1 {
		t.Errorf("Expected %d points, got %d", 12*4+1, len(pts))
	}
}

func TestGenerate_ChineseLogWithoutFont(t *testing.T) {
	c := loadCatalog(t)
	e := game.NewEngine(c, "zh")
	b := e.StartBattle(false)

	rows := logRows(b.Log, false)
	if len(rows) != 1 || !strings.Contains(rows[0].text, "ANOMA_SHEET_FONT") {
		t.Errorf("Expected the zh line replaced by a font notice, got %v", rows)
	}

	pdf, err := Generate(game.NewState(c), c, b.Log, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_MissingFont(t *testing.T) {
	c := loadCatalog(t)
	_, err := Generate(game.NewState(c), c, []string{"史莱姆出现了！"}, Options{FontPath: filepath.Join(t.TempDir(), "none.ttf")})
	if err == nil {
		t.Error("Expected error for a missing UTF-8 font")
	}
}

func TestLogRows(t *testing.T) {
	zh := "Forest Slime出现了！"
	lines := []string{"A Forest Slime appears!", zh, "Café crème"}

	got := logRows(lines, false)
	want := []logRow{
		{text: "A Forest Slime appears!"},
		{text: "Café crème"},
		{text: "(1 entries need a UTF-8 font, see ANOMA_SHEET_FONT)"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = logRows(lines, true)
	if len(got) != 3 || got[1] != (logRow{text: zh, utf8: true}) {
		t.Errorf("Expected the zh line kept for the UTF-8 font, got %v", got)
	}
	for _, r := range got {
		if strings.Contains(r.text, "..") {
			t.Errorf("Unexpected mangled text %q", r.text)
		}
	}
}
