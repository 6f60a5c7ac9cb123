package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/client/services"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(models.DateLayout)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func renderProjectTable(w io.Writer, projects []models.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tEND DATE\tASSIGNED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Status.Label(), formatDate(p.EndDate), joinOrDash(p.AssignedUsers))
	}
	tw.Flush()
}

func renderProject(w io.Writer, p models.Project) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", p.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", p.Status.Label())
	fmt.Fprintf(tw, "Start date:\t%s\n", formatDate(p.StartDate))
	fmt.Fprintf(tw, "End date:\t%s\n", formatDate(p.EndDate))
	fmt.Fprintf(tw, "Assigned:\t%s\n", joinOrDash(p.AssignedUsers))
	fmt.Fprintf(tw, "Attachments:\t%s\n", joinOrDash(p.Attachments))
	tw.Flush()

	if p.Description != "" {
		fmt.Fprintln(w, "Description:")
		for _, line := range strings.Split(p.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

func renderSummary(w io.Writer, s models.Summary) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total projects:\t%d\n", s.Total)
	fmt.Fprintf(tw, "In progress:\t%d\n", s.InProgress)
	fmt.Fprintf(tw, "Completed:\t%d\n", s.Completed)
	fmt.Fprintf(tw, "Pending:\t%d\n", s.Pending)
	tw.Flush()
}

func renderUsers(w io.Writer, users []models.Identity) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	tw.Flush()
}

type statRow struct {
	Method string
	Code   string
	Count  float64
}

func renderStats(w io.Writer, rows []statRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No requests recorded yet.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "METHOD\tCODE\tREQUESTS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\n", r.Method, r.Code, r.Count)
	}
	tw.Flush()
}

// errorMessage turns a command error into the line shown to the user.
func errorMessage(err error) string {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		var b strings.Builder
		b.WriteString("Invalid input:")
		for _, f := range ve.Fields {
			fmt.Fprintf(&b, "\n  - %s: %s", f.Field, f.Message)
		}
		return b.String()
	}

	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, client.ErrInvalidCredentials):
		return "Login failed: invalid email or password."
	case errors.Is(err, client.ErrForbidden):
		return "Access denied: administrator rights are required."
	case errors.Is(err, client.ErrNotFound):
		return "Not found."
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable. Please try again later."
	case errors.Is(err, client.ErrServer):
		return "Server error. Please try again later."
	case errors.Is(err, client.ErrMalformedResponse):
		return "Unexpected response from the server."
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "Request rejected: " + apiErr.Message
	}
	return "Error: " + err.Error()
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorMessage(err))
}
