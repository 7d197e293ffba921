package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
)

const timeLayout = "2006-01-02 15:04"

// List prints the user's tasks, newest first, numbered so the other task
// commands can refer to them by row.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	tasks, err := a.client.ListTasks(ctx, a.session)
	if err != nil {
		return a.handleAuthError(err)
	}
	a.lastList = tasks

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDONE\tTITLE\tCREATED")
	for i, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, checkbox(t.IsCompleted), t.Title, t.CreatedAt.Local().Format(timeLayout))
	}
	return w.Flush()
}

// Add prompts for a title and an optional description and creates a task.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}

	description, err := getMultiline(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	var desc *string
	if description != "" {
		desc = &description
	}

	task, err := a.client.CreateTask(ctx, a.session, title, desc)
	if err != nil {
		return a.handleAuthError(err)
	}

	a.lastList = nil
	fmt.Fprintf(a.out, "Task created successfully! (%s)\n", task.ID)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.taskID(args)
	if err != nil {
		return err
	}

	task, err := a.client.GetTask(ctx, a.session, id)
	if err != nil {
		return a.handleAuthError(err)
	}

	printTask(a, task)
	return nil
}

// Edit prompts for a new title and description. An empty title keeps the
// current one; a single "-" as description clears it.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.taskID(args)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "New title (empty to keep)", a.out)
	if err != nil {
		return err
	}

	description, err := getMultiline(a.reader, "New description (empty to keep, - to clear)", a.out)
	if err != nil {
		return err
	}

	var patch api.TaskPatch
	if title != "" {
		patch.Title = &title
	}
	switch description {
	case "":
	case "-":
		patch.ClearDescription = true
	default:
		patch.Description = &description
	}

	task, err := a.client.UpdateTask(ctx, a.session, id, patch)
	if err != nil {
		return a.handleAuthError(err)
	}

	fmt.Fprintln(a.out, "Task updated successfully!")
	printTask(a, task)
	return nil
}

func (a *App) SetCompleted(ctx context.Context, args []string, done bool) error {
	id, err := a.taskID(args)
	if err != nil {
		return err
	}

	task, err := a.client.UpdateTask(ctx, a.session, id, api.TaskPatch{IsCompleted: &done})
	if err != nil {
		return a.handleAuthError(err)
	}

	fmt.Fprintf(a.out, "Task updated successfully! %s %s\n", checkbox(task.IsCompleted), task.Title)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.taskID(args)
	if err != nil {
		return err
	}

	if err := a.client.DeleteTask(ctx, a.session, id); err != nil {
		return a.handleAuthError(err)
	}

	a.lastList = nil
	fmt.Fprintln(a.out, "Task deleted successfully!")
	return nil
}

// taskID resolves the command argument: a row number from the last list or
// a task id as is.
func (a *App) taskID(args []string) (string, error) {
	if !a.isLoggedIn() {
		return "", errNotLoggedIn
	}
	if len(args) == 0 {
		return "", errTaskArgMissing
	}

	arg := strings.TrimPrefix(args[0], "#")
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(a.lastList) {
			return "", fmt.Errorf("no row %d in the last list, run 'list' first", n)
		}
		return a.lastList[n-1].ID, nil
	}
	return args[0], nil
}

func printTask(a *App, t *api.Task) {
	fmt.Fprintf(a.out, "%s %s\n", checkbox(t.IsCompleted), t.Title)
	fmt.Fprintf(a.out, "  id:      %s\n", t.ID)
	if t.Description != nil {
		fmt.Fprintf(a.out, "  details: %s\n", strings.ReplaceAll(*t.Description, "\n", "\n           "))
	}
	fmt.Fprintf(a.out, "  created: %s\n", t.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(a.out, "  updated: %s\n", t.UpdatedAt.Local().Format(timeLayout))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
