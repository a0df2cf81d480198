package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/client"
	"github.com/cardbinder/cardbinder/pkg/domain"
)

func init() {
	// Keep assertions on plain text.
	color.NoColor = true
}

func TestTokenPrecedenceEnvOverFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv("CARDBINDER_TOKEN", "from-env")
	if got := readToken(); got != "from-env" {
		t.Fatalf("readToken = %q, want env token", got)
	}

	t.Setenv("CARDBINDER_TOKEN", "")
	if err := saveToken("from-file\n"); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	if got := readToken(); got != "from-file" {
		t.Fatalf("readToken = %q, want trimmed file token", got)
	}
}

func TestReadTokenMissingIsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CARDBINDER_TOKEN", "")
	if got := readToken(); got != "" {
		t.Fatalf("readToken = %q, want empty", got)
	}
}

func TestRunLogoutWithoutToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := runLogout(); err != nil {
		t.Fatalf("runLogout on clean home: %v", err)
	}
}

func TestRunLogoutRemovesToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CARDBINDER_TOKEN", "")
	if err := saveToken("tok"); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	if err := runLogout(); err != nil {
		t.Fatalf("runLogout: %v", err)
	}
	if got := readToken(); got != "" {
		t.Fatalf("token survives logout: %q", got)
	}
}

func checklistFixture() *binder.Binder {
	b := binder.New()
	b.Seed([]domain.Card{
		{ID: "fb-1", SetName: "Flagship Base", CardName: "Rookie", CardNumber: "1", Parallel: "Base", Collected: true},
		{ID: "fb-2", SetName: "Flagship Base", CardName: "Veteran", CardNumber: "2", Parallel: "Base", Serial: "/99"},
		{ID: "cb-1", SetName: "Chrome Base", CardName: "Refractor", CardNumber: "1", Parallel: "Refractor"},
	})
	return b
}

func TestRenderChecklistGroupsBySets(t *testing.T) {
	b := checklistFixture()

	out := renderChecklist(b.View(binder.Query{}), 0)

	if !strings.Contains(out, "Flagship Base") || !strings.Contains(out, "Chrome Base") {
		t.Errorf("expected both set titles:\n%s", out)
	}
	if !strings.Contains(out, "1/2") {
		t.Errorf("expected flagship count 1/2:\n%s", out)
	}
	if !strings.Contains(out, "✓") || !strings.Contains(out, "·") {
		t.Errorf("expected collected and missing marks:\n%s", out)
	}
	if !strings.Contains(out, "/99") {
		t.Errorf("expected serial column:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("no hidden note expected:\n%s", out)
	}
}

func TestRenderChecklistFilters(t *testing.T) {
	b := checklistFixture()

	out := renderChecklist(b.View(binder.Query{Filter: binder.FilterNeeded}), 0)
	if strings.Contains(out, "Rookie") {
		t.Errorf("collected card leaked through --needed:\n%s", out)
	}
	if !strings.Contains(out, "Veteran") || !strings.Contains(out, "Refractor") {
		t.Errorf("expected the two missing cards:\n%s", out)
	}
}

func TestRenderChecklistEmpty(t *testing.T) {
	out := renderChecklist(nil, 0)
	if !strings.Contains(out, "nothing matches") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func TestRenderChecklistHiddenNote(t *testing.T) {
	b := checklistFixture()
	out := renderChecklist(b.View(binder.Query{}), 2)
	if !strings.Contains(out, "2 hidden card(s) not shown") {
		t.Errorf("expected hidden note:\n%s", out)
	}
}

func TestRenderStatsReport(t *testing.T) {
	b := checklistFixture()

	out := renderStatsReport(b.Stats(), b.Portfolio())
	if !strings.Contains(out, "Progress") {
		t.Errorf("expected Progress title:\n%s", out)
	}
	if !strings.Contains(out, "1/3 (33%)") {
		t.Errorf("expected overall 1/3:\n%s", out)
	}
	if !strings.Contains(out, "flagship") || !strings.Contains(out, "chrome") {
		t.Errorf("expected per-type rows:\n%s", out)
	}
	// no priced holdings, no value section
	if strings.Contains(out, "invested") {
		t.Errorf("value section should be absent without holdings:\n%s", out)
	}
}

func TestRenderStatsReportPortfolio(t *testing.T) {
	price, value := 10.0, 25.0
	b := binder.New()
	b.Seed([]domain.Card{
		{ID: "v-1", SetName: "Flagship Base", CardName: "Gem", CardNumber: "1", Parallel: "Base",
			Collected: true, PurchasePrice: &price, CurrentValue: &value},
	})

	out := renderStatsReport(b.Stats(), b.Portfolio())
	if !strings.Contains(out, "invested  $10.00") {
		t.Errorf("expected invested line:\n%s", out)
	}
	if !strings.Contains(out, "+15.00 (+150.0%)") {
		t.Errorf("expected gain line:\n%s", out)
	}
}

func TestTextBarBounds(t *testing.T) {
	tests := []struct {
		percent    int
		wantFilled int
	}{
		{0, 0},
		{50, statsBarWidth / 2},
		{100, statsBarWidth},
		{140, statsBarWidth},
	}
	for _, tt := range tests {
		bar := textBar(tt.percent)
		filled := strings.Count(bar, "█")
		if filled != tt.wantFilled {
			t.Errorf("textBar(%d) filled = %d, want %d", tt.percent, filled, tt.wantFilled)
		}
		if filled+strings.Count(bar, "░") != statsBarWidth {
			t.Errorf("textBar(%d) total cells != %d", tt.percent, statsBarWidth)
		}
	}
}

// A first run seeds the bundled checklist and must create the remote
// document right away, from the plain commands as much as from the TUI.
func TestWriteSeedCreatesRemoteDocument(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/binder" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var err error
		if body, err = io.ReadAll(r.Body); err != nil {
			t.Errorf("read body: %v", err)
		}
	}))
	defer srv.Close()

	bind := binder.New()
	bind.Seed([]domain.Card{
		{ID: "fb-1", SetName: "Flagship Base", CardName: "Rookie", CardNumber: "1", Parallel: "Base", Builtin: true},
	})

	s := &session{api: client.New(srv.URL, "tok"), user: &domain.User{ID: "u-1"}}
	s.writeSeed(context.Background(), bind)

	if len(body) == 0 {
		t.Fatal("no document written")
	}
	var doc domain.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("written body is not a document: %v", err)
	}
	if len(doc.Cards) != 1 || doc.Cards[0].ID != "fb-1" {
		t.Errorf("written cards = %+v, want the seeded card", doc.Cards)
	}
	// The write is a merge-upsert; the bookkeeping fields ride along even
	// when empty so stale server state cannot survive.
	for _, key := range []string{`"hidden_cards":[]`, `"custom_order":{}`, `"collection_order":[]`} {
		if !strings.Contains(string(body), key) {
			t.Errorf("write body missing %s:\n%s", key, body)
		}
	}
}

func TestRootCmdWiring(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{"login": false, "logout": false, "list": false, "stats": false, "version": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
