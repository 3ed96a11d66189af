package handler

import (
	"log/slog"
	"os"

	"github.com/chetan-code/taskmanager/internal/report"
)

func GenerateReport(s *Session) error {
	if err := writeReports(s); err != nil {
		return err
	}
	s.Console.Printf("Reports written to %s and %s\n", s.Reports.TaskOverview, s.Reports.UserOverview)
	return nil
}

func writeReports(s *Session) error {
	r := report.Generate(s.Users.Usernames(), s.Tasks.All(), s.now())
	if err := report.Write(r, s.Reports.TaskOverview, s.Reports.UserOverview); err != nil {
		slog.Error("report_write_failed", "error", err)
		return err
	}
	slog.Info("report_generate_success", "tasks", r.Overall.Total, "users", r.Users)
	return nil
}

// DisplayStatistics regenerates both overview files from the current stores
// and prints them.
func DisplayStatistics(s *Session) error {
	if err := writeReports(s); err != nil {
		return err
	}

	c := s.Console
	c.Println("-----------------------------------")
	c.Printf("Number of users: \t\t %d\n", s.Users.Count())
	c.Printf("Number of tasks: \t\t %d\n", s.Tasks.Count())
	c.Println("-----------------------------------")

	for _, path := range []string{s.Reports.TaskOverview, s.Reports.UserOverview} {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		c.Println(string(data))
	}
	return nil
}
