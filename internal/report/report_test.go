package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chetan-code/taskmanager/internal/models"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)

func task(user string, due time.Time, completed bool) models.Task {
	return models.Task{
		Username:     user,
		Title:        "t",
		DueDate:      models.DateOf(due),
		AssignedDate: models.DateOf(now),
		Completed:    completed,
	}
}

func TestGenerateEmpty(t *testing.T) {
	r := Generate([]string{"admin", "bob"}, nil, now)

	if r.Overall != (Metrics{}) {
		t.Errorf("overall = %+v", r.Overall)
	}
	if r.Overall.CompletedPct() != 0 || r.Overall.IncompletePct() != 0 || r.Overall.OverduePct() != 0 {
		t.Error("percentages must be 0 when there are no tasks")
	}
	if len(r.PerUser) != 2 {
		t.Fatalf("PerUser has %d entries", len(r.PerUser))
	}
	for _, u := range r.PerUser {
		if u.Total != 0 || u.ShareOfAll != 0 || u.CompletedPct() != 0 {
			t.Errorf("user %s should be all zero: %+v", u.Username, u)
		}
	}
}

func TestGenerateScenario(t *testing.T) {
	future := now.AddDate(4, 0, 0)
	tasks := []models.Task{task("bob", future, true)}

	r := Generate([]string{"admin", "bob"}, tasks, now)

	want := Metrics{Total: 1, Completed: 1, Incomplete: 0, Overdue: 0}
	if r.Overall != want {
		t.Errorf("overall = %+v, want %+v", r.Overall, want)
	}
	if r.Overall.CompletedPct() != 100 || r.Overall.IncompletePct() != 0 || r.Overall.OverduePct() != 0 {
		t.Errorf("percentages = %v/%v/%v", r.Overall.CompletedPct(), r.Overall.IncompletePct(), r.Overall.OverduePct())
	}
	if r.PerUser[1].Username != "bob" || r.PerUser[1].ShareOfAll != 100 {
		t.Errorf("bob = %+v", r.PerUser[1])
	}
	if r.PerUser[0].Total != 0 {
		t.Errorf("admin = %+v", r.PerUser[0])
	}
}

func TestOverdueIsNotAThirdBucket(t *testing.T) {
	past := now.AddDate(0, 0, -3)
	tasks := []models.Task{
		task("bob", past, false),                 // incomplete and overdue
		task("bob", past, true),                  // completed, never overdue
		task("bob", now.AddDate(0, 0, 5), false), // incomplete, not overdue
	}

	m := Generate([]string{"bob"}, tasks, now).PerUser[0].Metrics
	want := Metrics{Total: 3, Completed: 1, Incomplete: 2, Overdue: 1}
	if m != want {
		t.Errorf("metrics = %+v, want %+v", m, want)
	}
	if m.Completed+m.Incomplete != m.Total {
		t.Error("completed and incomplete must partition the total")
	}
}

func TestPercentagesSumTo100(t *testing.T) {
	for total := 1; total <= 9; total++ {
		for done := 0; done <= total; done++ {
			m := Metrics{Total: total, Completed: done, Incomplete: total - done}
			if sum := m.CompletedPct() + m.IncompletePct(); math.Abs(sum-100) > 1e-9 {
				t.Errorf("total=%d completed=%d: sum = %v", total, done, sum)
			}
		}
	}
}

func TestTasksOfUnknownUsersCountOverall(t *testing.T) {
	tasks := []models.Task{task("ghost", now, false), task("bob", now, false)}
	r := Generate([]string{"bob"}, tasks, now)
	if r.Overall.Total != 2 || r.PerUser[0].Total != 1 {
		t.Errorf("overall=%d bob=%d", r.Overall.Total, r.PerUser[0].Total)
	}
	if r.PerUser[0].ShareOfAll != 50 {
		t.Errorf("bob share = %v", r.PerUser[0].ShareOfAll)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	taskPath := filepath.Join(dir, "task_overview.txt")
	userPath := filepath.Join(dir, "reports", "user_overview.txt")

	r := Generate([]string{"admin", "bob"}, []models.Task{task("bob", now.AddDate(1, 0, 0), true)}, now)
	if err := Write(r, taskPath, userPath); err != nil {
		t.Fatalf("Write: %v", err)
	}

	taskOverview, err := os.ReadFile(taskPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"TASK OVERVIEW", "Total tasks:", "(100.00%)", "(0.00%)"} {
		if !strings.Contains(string(taskOverview), want) {
			t.Errorf("task overview missing %q:\n%s", want, taskOverview)
		}
	}

	userOverview, err := os.ReadFile(userPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"USER OVERVIEW", "Total users:", "admin", "bob", "Share of all tasks:"} {
		if !strings.Contains(string(userOverview), want) {
			t.Errorf("user overview missing %q:\n%s", want, userOverview)
		}
	}
}
