package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/tgienger/planner/internal/api/apitest"
	"github.com/tgienger/planner/internal/models"
)

// run executes the command line against srv with a throwaway settings db
func run(t *testing.T, srv *apitest.Server, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--base-url", srv.URL, "--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func seed(srv *apitest.Server) {
	srv.Add(models.Plan{Title: "Run 5k", Priority: models.PriorityHigh,
		Schedule: models.DailySchedule{Date: models.Date{Year: 2025, Month: 12, Day: 21}}})
	srv.Add(models.Plan{Title: "Stretch", Status: models.StatusCompleted,
		Schedule: models.DailySchedule{Date: models.Date{Year: 2025, Month: 12, Day: 20}}})
}

func TestList_PrintsTable(t *testing.T) {
	srv := apitest.NewServer(t)
	seed(srv)

	out, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"), "list", "daily")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"TITLE", "Run 5k", "Stretch", "High", "Completed", "2025-12-21"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestList_DateFilter(t *testing.T) {
	srv := apitest.NewServer(t)
	seed(srv)

	out, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"),
		"list", "daily", "--date", "2025-12-20", "--status", "not-started")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "Run 5k") || !strings.Contains(out, "Stretch") {
		t.Errorf("date filter not applied:\n%s", out)
	}
	if !slices.Contains(srv.Requests(), "GET /api/daily/date/2025-12-20") {
		t.Errorf("requests = %v", srv.Requests())
	}
}

func TestList_SanitizesTitles(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Add(models.Plan{Title: "evil\x1b[2J\x1b]0;pwned\x07",
		Schedule: models.YearlySchedule{Year: 2025}})

	out, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"), "list", "yearly")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "\x1b]") || strings.Contains(out, "\x1b[2J") || strings.Contains(out, "\x07") {
		t.Errorf("control sequences leaked: %q", out)
	}
}

func TestList_Empty(t *testing.T) {
	srv := apitest.NewServer(t)

	out, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"), "list", "monthly")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No plans found.") {
		t.Errorf("output = %q", out)
	}
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown kind", []string{"list", "hourly"}, "unknown plan kind"},
		{"bad date", []string{"list", "daily", "--date", "21/12/2025"}, "invalid --date"},
		{"bad status", []string{"list", "daily", "--status", "done"}, "unknown status"},
		{"bad month", []string{"list", "monthly", "--month", "13"}, "invalid --month"},
		{"missing kind", []string{"list"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			_, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestList_ServerErrorMessage(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Fail("GET", "/api/daily", 500, "database unavailable")

	_, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"), "list", "daily")
	if err == nil || err.Error() != "database unavailable" {
		t.Errorf("err = %v", err)
	}
}

func TestExport_WritesHTMLFile(t *testing.T) {
	srv := apitest.NewServer(t)
	seed(srv)
	dir := t.TempDir()
	file := filepath.Join(dir, "daily.html")

	if _, err := run(t, srv, filepath.Join(dir, "p.db"), "export", "daily", "-o", file); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(b), `class="plan-card `); got != 2 {
		t.Errorf("cards = %d, want 2", got)
	}
}

func TestExport_EmptyToStdout(t *testing.T) {
	srv := apitest.NewServer(t)

	out, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"), "export", "weekly")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Count(out, `class="empty-state"`) != 1 {
		t.Errorf("output = %q, want one empty state", out)
	}
}

func TestTheme_SaveAndShow(t *testing.T) {
	srv := apitest.NewServer(t)
	dbPath := filepath.Join(t.TempDir(), "p.db")
	t.Setenv("PLANNER_THEME", "light")

	out, err := run(t, srv, dbPath, "theme")
	if err != nil || strings.TrimSpace(out) != "light" {
		t.Fatalf("theme = %q, %v; want the configured default", out, err)
	}

	if _, err := run(t, srv, dbPath, "theme", "DARK"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	out, err = run(t, srv, dbPath, "theme")
	if err != nil || strings.TrimSpace(out) != "dark" {
		t.Errorf("theme = %q, %v; want dark", out, err)
	}

	if _, err := run(t, srv, dbPath, "theme", "solarized"); err == nil {
		t.Error("unknown theme should fail")
	}
}

func TestVersion(t *testing.T) {
	srv := apitest.NewServer(t)

	out, err := run(t, srv, filepath.Join(t.TempDir(), "p.db"), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output = %q, want it to mention %q", out, version)
	}
}
