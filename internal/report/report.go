// Package report aggregates task statistics and writes the task and user
// overview files.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/chetan-code/taskmanager/internal/models"
)

// Metrics counts tasks by state. An overdue task is also counted as incomplete.
type Metrics struct {
	Total      int
	Completed  int
	Incomplete int
	Overdue    int
}

func (m *Metrics) add(t models.Task, now time.Time) {
	m.Total++
	if t.Completed {
		m.Completed++
		return
	}
	m.Incomplete++
	if t.Overdue(now) {
		m.Overdue++
	}
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func (m Metrics) CompletedPct() float64 {
	return percent(m.Completed, m.Total)
}

func (m Metrics) IncompletePct() float64 {
	if m.Total == 0 {
		return 0
	}
	return 100 - m.CompletedPct()
}

func (m Metrics) OverduePct() float64 {
	return percent(m.Overdue, m.Total)
}

type UserMetrics struct {
	Username string
	Metrics
	// ShareOfAll is the user's share of every task in the system.
	ShareOfAll float64
}

type Report struct {
	GeneratedAt time.Time
	Users       int
	Overall     Metrics
	PerUser     []UserMetrics
}

// Generate builds the report at now. Every username gets an entry, in the
// order given, even without tasks. Tasks of unknown users only count
// towards the overall figures.
func Generate(usernames []string, tasks []models.Task, now time.Time) Report {
	r := Report{GeneratedAt: now, Users: len(usernames)}

	byUser := make(map[string]*Metrics, len(usernames))
	r.PerUser = make([]UserMetrics, len(usernames))
	for i, name := range usernames {
		r.PerUser[i].Username = name
		byUser[name] = &r.PerUser[i].Metrics
	}

	for _, t := range tasks {
		r.Overall.add(t, now)
		if m, ok := byUser[t.Username]; ok {
			m.add(t, now)
		}
	}
	for i := range r.PerUser {
		r.PerUser[i].ShareOfAll = percent(r.PerUser[i].Total, r.Overall.Total)
	}
	return r
}

// Write renders both overview files, creating parent directories as needed.
func Write(r Report, taskPath, userPath string) error {
	if err := writeFile(taskPath, func(w io.Writer) error { return RenderTaskOverview(w, r) }); err != nil {
		return fmt.Errorf("could not write task overview: %w", err)
	}
	if err := writeFile(userPath, func(w io.Writer) error { return RenderUserOverview(w, r) }); err != nil {
		return fmt.Errorf("could not write user overview: %w", err)
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const rule = "-----------------------------------"

func RenderTaskOverview(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK OVERVIEW")
	fmt.Fprintf(tw, "Generated:\t%s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(tw, rule)
	writeMetrics(tw, r.Overall)
	fmt.Fprintln(tw, rule)
	return tw.Flush()
}

func RenderUserOverview(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "USER OVERVIEW")
	fmt.Fprintf(tw, "Generated:\t%s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(tw, "Total users:\t%d\n", r.Users)
	fmt.Fprintf(tw, "Total tasks:\t%d\n", r.Overall.Total)
	for _, u := range r.PerUser {
		fmt.Fprintln(tw, rule)
		fmt.Fprintf(tw, "User:\t%s\n", u.Username)
		fmt.Fprintf(tw, "Share of all tasks:\t%.2f%%\n", u.ShareOfAll)
		writeMetrics(tw, u.Metrics)
	}
	fmt.Fprintln(tw, rule)
	return tw.Flush()
}

func writeMetrics(w io.Writer, m Metrics) {
	fmt.Fprintf(w, "Total tasks:\t%d\n", m.Total)
	fmt.Fprintf(w, "Completed tasks:\t%d\t(%.2f%%)\n", m.Completed, m.CompletedPct())
	fmt.Fprintf(w, "Incomplete tasks:\t%d\t(%.2f%%)\n", m.Incomplete, m.IncompletePct())
	fmt.Fprintf(w, "Overdue tasks:\t%d\t(%.2f%%)\n", m.Overdue, m.OverduePct())
}
