package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
	"github.com/shelbytessier/nativepath-promotions-sub000/internal/scoring"
)

func WriteHTML(runID, outDir string, run *qa.Run) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum := scoring.Summarize(run.Findings)

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .crit{color:#b00020;font-weight:600} .warn{color:#a06000} .review{color:#555;font-style:italic}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>Content QA report – <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Channel: %s (%s) &nbsp; Source: %s</p>",
		html.EscapeString(run.Channel), html.EscapeString(run.Profile), html.EscapeString(run.Source))
	fmt.Fprintf(f, "<p><b>Score: %.0f</b> &nbsp; Critical: %d &nbsp; Warning: %d &nbsp; Info: %d &nbsp; Needs review: %d</p>",
		run.Score, sum.Critical, sum.Warning, sum.Info, sum.Advisory)

	if len(run.Findings) == 0 {
		fmt.Fprint(f, "<h2>Findings</h2><p class='dim'>No findings; content passed every applicable rule.</p>")
		fmt.Fprint(f, "</body></html>")
		return path, nil
	}

	// Severity-sorted view; registry order is preserved within a severity.
	rank := map[string]int{"critical": 3, "warning": 2, "info": 1}
	findings := make([]qa.Finding, len(run.Findings))
	copy(findings, run.Findings)
	sort.SliceStable(findings, func(i, j int) bool {
		return rank[findings[i].Severity] > rank[findings[j].Severity]
	})

	fmt.Fprint(f, "<h2>Findings</h2><table><tr><th>Severity</th><th>Rule</th><th>Location</th><th>Status</th><th>Message</th><th>Details</th></tr>")
	for _, fd := range findings {
		status := "failed"
		cls := "warn"
		if fd.Severity == "critical" {
			cls = "crit"
		}
		if fd.Passed {
			status = "needs review"
			cls = "review"
		}
		fmt.Fprintf(f, "<tr><td class='%s'>%s</td><td class='mono'>%s</td><td>%s</td><td>%s</td><td>%s</td><td class='dim'>%s</td></tr>",
			cls,
			html.EscapeString(fd.Severity),
			html.EscapeString(fd.RuleID),
			html.EscapeString(fd.Location),
			status,
			html.EscapeString(fd.Message),
			html.EscapeString(fd.Details),
		)
	}
	fmt.Fprint(f, "</table>")

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
