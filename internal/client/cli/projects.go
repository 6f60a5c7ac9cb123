package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/client/services"
	"github.com/dmitrijs2005/projecthub/internal/filex"
)

const downloadDir = "downloads"

// loadProjects refreshes the directory. When a refresh fails but an earlier
// list exists, the earlier list is kept and shown.
func (a *App) loadProjects(ctx context.Context) error {
	_, err := a.projectService.Load(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, client.ErrUnauthorized) || !a.projectService.Loaded() {
		return err
	}
	a.logger.Warn(ctx, "showing cached projects", "error", err)
	fmt.Fprintln(a.out, "Could not refresh projects, showing the last known list.")
	return nil
}

// parseStatusFilter returns nil for an empty or "all" answer.
func parseStatusFilter(raw string) *models.Status {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil
	}
	s := models.ParseStatus(raw)
	return &s
}

func (a *App) List(ctx context.Context) error {
	search, err := getSimpleText(a.reader, "Search by title (empty for all)", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "Filter by status: pending, in progress, completed (empty for all)", a.out)
	if err != nil {
		return err
	}

	if err := a.loadProjects(ctx); err != nil {
		return err
	}
	renderProjectTable(a.out, a.projectService.Filter(models.ProjectFilter{
		Search: search,
		Status: parseStatusFilter(status),
	}))
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	p, err := a.projectService.Get(ctx, id)
	if err != nil {
		return err
	}
	renderProject(a.out, *p)
	return nil
}

func (a *App) Summary(ctx context.Context) error {
	if err := a.loadProjects(ctx); err != nil {
		return err
	}
	renderSummary(a.out, a.projectService.Summary())
	return nil
}

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, &services.ValidationError{Fields: []services.FieldError{
			{Field: field, Message: field + " must be a date in YYYY-MM-DD form"},
		}}
	}
	return t, nil
}

func readUploads(raw string) ([]models.FileUpload, error) {
	paths := splitList(raw)
	if len(paths) == 0 {
		return nil, nil
	}
	uploads := make([]models.FileUpload, 0, len(paths))
	for _, path := range paths {
		name, data, err := filex.ReadAttachment(path)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, models.FileUpload{FileName: name, Data: data})
	}
	return uploads, nil
}

// showAssignees lists the accounts a project can be assigned to. It is a
// convenience, so failures other than an expired session are ignored.
func (a *App) showAssignees(ctx context.Context) error {
	list, err := a.userService.List(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	if err != nil {
		a.logger.Debug(ctx, "assignee list unavailable", "error", err)
		return nil
	}
	renderUsers(a.out, list)
	return nil
}

func (a *App) Create(ctx context.Context) error {
	if !a.isAdmin() {
		return client.ErrForbidden
	}
	if err := a.showAssignees(ctx); err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	prompts := []string{
		"Enter status: pending, in progress, completed (empty for in progress)",
		"Enter start date (YYYY-MM-DD)",
		"Enter end date (YYYY-MM-DD)",
		"Enter assigned user ids, comma separated",
		"Enter attachment file paths, comma separated (empty for none)",
	}
	values := make([]string, len(prompts))
	for i, prompt := range prompts {
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		values[i] = v
	}

	in := models.ProjectInput{Title: title, Description: description, Status: models.StatusActive}
	if values[0] != "" {
		in.Status = models.ParseStatus(values[0])
	}

	if in.StartDate, err = parseDate("startDate", values[1]); err != nil {
		return err
	}
	if in.EndDate, err = parseDate("endDate", values[2]); err != nil {
		return err
	}
	in.AssignedUsers = splitList(values[3])
	if in.Attachments, err = readUploads(values[4]); err != nil {
		return err
	}

	p, err := a.projectService.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Project created.")
	renderProject(a.out, *p)
	return nil
}

// optional returns nil for an empty answer so the field is left unchanged.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (a *App) Update(ctx context.Context, id string) error {
	var patch models.ProjectPatch

	title, err := getSimpleText(a.reader, "New title (empty to keep)", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "New description (empty to keep)", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "New status: pending, in progress, completed (empty to keep)", a.out)
	if err != nil {
		return err
	}
	files, err := getSimpleText(a.reader, "Attachment file paths replacing the current ones, comma separated (empty to keep)", a.out)
	if err != nil {
		return err
	}

	patch.Title = optional(title)
	patch.Description = optional(description)
	if status != "" {
		s := models.ParseStatus(status)
		patch.Status = &s
	}
	if patch.Attachments, err = readUploads(files); err != nil {
		return err
	}

	p, err := a.projectService.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Project updated.")
	renderProject(a.out, *p)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if !a.isAdmin() {
		return client.ErrForbidden
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete project %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.projectService.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Project deleted.")
	return nil
}

// Download saves an attachment under ./downloads.
func (a *App) Download(ctx context.Context, ref string) error {
	if a.attachments == nil {
		fmt.Fprintln(a.out, "Downloads are only available with the local backend.")
		return nil
	}
	f, err := a.attachments.Attachment(ctx, ref)
	if err != nil {
		return err
	}
	dir, err := filex.EnsureSubDir(downloadDir)
	if err != nil {
		return err
	}
	path, err := filex.SaveAttachment(dir, f.FileName, f.Data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s.\n", path)
	return nil
}
