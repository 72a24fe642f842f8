package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"seedbench/internal/runner"
)

const scoresPlaceholder = "/* scores_by_solver */{}"

// Overview maps solver identifier to that solver's seed scores, keyed by
// the seed's decimal string form as embedded in the report artifact.
type Overview map[string]map[string]int64

// SolverSummary is one scoreboard row.
type SolverSummary struct {
	Name  string  `json:"name"`
	Seeds int     `json:"seeds"`
	Total int64   `json:"total"`
	Mean  float64 `json:"mean"`
}

// Collect rebuilds the overview from disk, scanning every solver directory
// under outputRoot. A solver's mapping is built wholesale from its .log
// files, so a rerun for a solver replaces its prior entry completely.
func Collect(outputRoot string) (Overview, error) {
	overview := Overview{}
	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return overview, nil
		}
		return nil, fmt.Errorf("reading output root %s: %w", outputRoot, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		scores, err := collectSolver(filepath.Join(outputRoot, entry.Name()))
		if err != nil {
			return nil, err
		}
		overview[entry.Name()] = scores
	}
	return overview, nil
}

func collectSolver(dir string) (map[string]int64, error) {
	scores := map[string]int64{}
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading solver dir %s: %w", dir, err)
	}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".log") {
			continue
		}
		stem := strings.TrimSuffix(name, ".log")
		if _, err := strconv.Atoi(stem); err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		scores[stem] = runner.ExtractScore(string(data))
	}
	return scores, nil
}

// Update rebuilds the overview from disk and writes the rendered artifact,
// substituting the JSON payload into the template placeholder. The payload
// has sorted keys, so repeated runs over unchanged results are
// byte-identical.
func Update(outputRoot, templatePath, overviewPath string) error {
	overview, err := Collect(outputRoot)
	if err != nil {
		return err
	}
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading overview template: %w", err)
	}
	if !strings.Contains(string(tmpl), scoresPlaceholder) {
		return fmt.Errorf("template %s has no %q placeholder", templatePath, scoresPlaceholder)
	}
	payload, err := json.Marshal(overview)
	if err != nil {
		return fmt.Errorf("encoding overview: %w", err)
	}
	page := strings.Replace(string(tmpl), scoresPlaceholder, string(payload), 1)
	return os.WriteFile(overviewPath, []byte(page), 0o644)
}

// Render rebuilds the overview from disk and writes a per-solver scoreboard.
func Render(outputRoot, format string, w io.Writer) error {
	overview, err := Collect(outputRoot)
	if err != nil {
		return err
	}
	summaries := Summarize(overview)

	switch format {
	case "markdown":
		return writeMarkdown(summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, w)
	}
}

// Summarize folds the overview into scoreboard rows sorted by solver name.
func Summarize(overview Overview) []SolverSummary {
	var summaries []SolverSummary
	for name, scores := range overview {
		var total int64
		for _, score := range scores {
			total += score
		}
		s := SolverSummary{Name: name, Seeds: len(scores), Total: total}
		if len(scores) > 0 {
			s.Mean = float64(total) / float64(len(scores))
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

func writeTable(summaries []SolverSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOLVER\tSEEDS\tTOTAL\tMEAN")
	fmt.Fprintln(tw, strings.Repeat("-", 48))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\n", s.Name, s.Seeds, s.Total, s.Mean)
	}
	return tw.Flush()
}

func writeMarkdown(summaries []SolverSummary, w io.Writer) error {
	fmt.Fprintln(w, "| Solver | Seeds | Total | Mean |")
	fmt.Fprintln(w, "|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %d | %.1f |\n", s.Name, s.Seeds, s.Total, s.Mean)
	}
	return nil
}

func writeJSON(summaries []SolverSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
