package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/chetan-code/taskmanager/internal/models"
	"github.com/chetan-code/taskmanager/internal/record"
)

var rule = strings.Repeat("-", 75)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// promptField asks until the answer is safe to store.
func promptField(c *Console, label, name string) (string, error) {
	for {
		v, err := c.Prompt(label)
		if err != nil {
			return "", err
		}
		if err := record.CheckField(name, v); err != nil {
			c.Println(capitalize(err.Error()))
			continue
		}
		return v, nil
	}
}

func promptDate(c *Console, label string) (time.Time, error) {
	for {
		v, err := c.Prompt(label)
		if err != nil {
			return time.Time{}, err
		}
		d, err := record.ParseDate(strings.TrimSpace(v))
		if err != nil {
			c.Println("Invalid datetime format. Please use the format specified")
			continue
		}
		return d, nil
	}
}

func promptExistingUser(s *Session, label string) (string, error) {
	for {
		v, err := s.Console.Prompt(label)
		if err != nil {
			return "", err
		}
		if !s.Users.Exists(v) {
			s.Console.Println("User does not exist please enter a valid username")
			continue
		}
		return v, nil
	}
}

// AddTask creates an incomplete task assigned today.
func AddTask(s *Session) error {
	c := s.Console
	assignee, err := promptExistingUser(s, "Name of person assigned to task: ")
	if err != nil {
		return err
	}
	title, err := promptField(c, "Title of Task: ", "title")
	if err != nil {
		return err
	}
	description, err := promptField(c, "Description of Task: ", "description")
	if err != nil {
		return err
	}
	due, err := promptDate(c, "Due date of task (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	task := models.Task{
		Username:     assignee,
		Title:        title,
		Description:  description,
		DueDate:      due,
		AssignedDate: models.DateOf(s.now()),
		Completed:    false,
	}
	if err := s.Tasks.Add(task); err != nil {
		slog.Error("task_add_failed", "title", title, "assignee", assignee, "error", err)
		return err
	}

	c.Println("Task successfully added")
	slog.Info("task_add_success", "title", title, "assignee", assignee, "added_by", s.User)
	return nil
}

func renderTask(w io.Writer, label string, t models.Task) {
	var b strings.Builder
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%s: \t %s\n", label, t.Title)
	fmt.Fprintf(&b, "\nAssigned to: \t %s\n", t.Username)
	fmt.Fprintf(&b, "Date Assigned: \t %s\n", record.FormatDate(t.AssignedDate))
	fmt.Fprintf(&b, "Due Date: \t %s\n", record.FormatDate(t.DueDate))
	fmt.Fprintf(&b, "Completed: \t %s\n", record.YesNo(t.Completed))
	fmt.Fprintf(&b, "\nTask Description: \n%s\n", t.Description)
	io.WriteString(w, b.String())
}

func ViewAll(s *Session) error {
	tasks := s.Tasks.All()
	if len(tasks) == 0 {
		s.Console.Println("There are no tasks yet")
		return nil
	}
	for _, t := range tasks {
		renderTask(s.Console.Writer(), "Task", t)
	}
	s.Console.Println(rule)
	return nil
}

// ViewMine lists the current user's tasks numbered from 1 and opens the
// editor for the selected one.
func ViewMine(s *Session) error {
	mine := s.Tasks.ForUser(s.User)
	if len(mine) == 0 {
		s.Console.Println("You have no tasks assigned")
		return nil
	}
	for i, it := range mine {
		renderTask(s.Console.Writer(), fmt.Sprintf("Task %d", i+1), it.Task)
	}
	s.Console.Println(rule)

	selection, err := promptSelection(s.Console, len(mine))
	if err != nil || selection < 0 {
		return err
	}
	return editTask(s, mine[selection].Index, selection+1)
}

// promptSelection returns a 0-based position in a list of n, or -1 when the
// user asks to go back.
func promptSelection(c *Console, n int) (int, error) {
	for {
		v, err := c.Prompt("Please select a task (-1 to return to the main menu): ")
		if err != nil {
			return 0, err
		}
		num, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			c.Println("Please enter a whole number")
			continue
		}
		if num == -1 {
			return -1, nil
		}
		if num < 1 || num > n {
			c.Println("Task out of range")
			continue
		}
		return num - 1, nil
	}
}

const editMenu = `
Select one of the following options below for task %d:
c - Mark task as complete / incomplete
ed - Edit task due date
ea - Edit task assignee
e - exit
:`

// editTask edits the task at the canonical index. number is the position
// the user saw it at.
func editTask(s *Session, index, number int) error {
	c := s.Console
	for {
		choice, err := c.Choice(fmt.Sprintf(editMenu, number))
		if err != nil {
			return err
		}

		switch choice {
		case "c":
			var completed bool
			err := s.Tasks.Update(index, func(t *models.Task) error {
				t.ToggleCompleted()
				completed = t.Completed
				return nil
			})
			if err != nil {
				return err
			}
			if completed {
				c.Printf("Task %d marked as complete\n", number)
			} else {
				c.Printf("Task %d marked as incomplete\n", number)
			}
			slog.Info("task_toggle_success", "index", index, "completed", completed, "username", s.User)

		case "ed":
			if locked(s, index) {
				continue
			}
			due, err := promptDate(c, fmt.Sprintf("\nDue date of task %d (YYYY-MM-DD): ", number))
			if err != nil {
				return err
			}
			err = s.Tasks.Update(index, func(t *models.Task) error { return t.Reschedule(due) })
			if errors.Is(err, models.ErrTaskCompleted) {
				c.Println("Completed tasks cannot be edited")
				continue
			}
			if err != nil {
				return err
			}
			c.Printf("Task %d due date changed\n", number)
			slog.Info("task_reschedule_success", "index", index, "due_date", record.FormatDate(due), "username", s.User)

		case "ea":
			if locked(s, index) {
				continue
			}
			assignee, err := promptExistingUser(s, fmt.Sprintf("\nPlease enter the username of the person you would like to assign task %d to: ", number))
			if err != nil {
				return err
			}
			err = s.Tasks.Update(index, func(t *models.Task) error { return t.Reassign(assignee) })
			if errors.Is(err, models.ErrTaskCompleted) {
				c.Println("Completed tasks cannot be edited")
				continue
			}
			if err != nil {
				return err
			}
			c.Printf("Task %d assigned to %s\n", number, assignee)
			slog.Info("task_reassign_success", "index", index, "assignee", assignee, "username", s.User)
			if assignee != s.User {
				c.Println("Exiting task editor")
				return nil
			}

		case "e":
			c.Println("Exiting task editor")
			return nil

		default:
			c.Println("Please select a listed option")
		}
	}
}

// locked reports, and tells the user, that the task can no longer be edited.
func locked(s *Session, index int) bool {
	t, err := s.Tasks.Get(index)
	if err != nil {
		s.Console.Printf("Error: %v\n", err)
		return true
	}
	if t.Completed {
		s.Console.Println("Completed tasks cannot be edited")
		return true
	}
	return false
}
