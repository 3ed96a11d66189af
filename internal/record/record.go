// Package record converts users and tasks to and from the semicolon
// delimited lines stored in the users and tasks files.
package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/chetan-code/taskmanager/internal/models"
)

const (
	Separator  = ";"
	DateLayout = "2006-01-02"

	completedYes = "Yes"
	completedNo  = "No"

	taskFields = 6
	userFields = 2
)

// FormatError describes a line that does not decode into a record.
// Line is the 1-based line number when the record came from a file, 0 otherwise.
type FormatError struct {
	Line   int
	Record string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: malformed record %q: %s", e.Line, e.Record, e.Reason)
	}
	return fmt.Sprintf("malformed record %q: %s", e.Record, e.Reason)
}

func formatErrorf(line, format string, args ...any) *FormatError {
	return &FormatError{Record: line, Reason: fmt.Sprintf(format, args...)}
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CheckField rejects values that would break the line format.
func CheckField(name, value string) error {
	if strings.ContainsAny(value, Separator+"\r\n") {
		return fmt.Errorf("%s must not contain %q or line breaks", name, Separator)
	}
	return nil
}

func DecodeTask(line string) (models.Task, error) {
	parts := strings.Split(line, Separator)
	if len(parts) != taskFields {
		return models.Task{}, formatErrorf(line, "expected %d fields, got %d", taskFields, len(parts))
	}

	due, err := ParseDate(parts[3])
	if err != nil {
		return models.Task{}, formatErrorf(line, "due date %q is not YYYY-MM-DD", parts[3])
	}
	assigned, err := ParseDate(parts[4])
	if err != nil {
		return models.Task{}, formatErrorf(line, "assigned date %q is not YYYY-MM-DD", parts[4])
	}

	var completed bool
	switch parts[5] {
	case completedYes:
		completed = true
	case completedNo:
		completed = false
	default:
		return models.Task{}, formatErrorf(line, "completed must be %s or %s, got %q", completedYes, completedNo, parts[5])
	}

	return models.Task{
		Username:     parts[0],
		Title:        parts[1],
		Description:  parts[2],
		DueDate:      due,
		AssignedDate: assigned,
		Completed:    completed,
	}, nil
}

func EncodeTask(t models.Task) string {
	return strings.Join([]string{
		t.Username,
		t.Title,
		t.Description,
		FormatDate(t.DueDate),
		FormatDate(t.AssignedDate),
		YesNo(t.Completed),
	}, Separator)
}

func DecodeUser(line string) (models.User, error) {
	parts := strings.Split(line, Separator)
	if len(parts) != userFields {
		return models.User{}, formatErrorf(line, "expected %d fields, got %d", userFields, len(parts))
	}
	return models.User{Username: parts[0], Password: parts[1]}, nil
}

func EncodeUser(u models.User) string {
	return u.Username + Separator + u.Password
}

// YesNo renders a completion flag the way it is stored and displayed.
func YesNo(b bool) string {
	if b {
		return completedYes
	}
	return completedNo
}
