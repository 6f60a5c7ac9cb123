package client

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

type formBody struct {
	contentType string
	body        *bytes.Buffer
}

type formWriter struct {
	w   *multipart.Writer
	err error
}

func (f *formWriter) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *formWriter) files(uploads []models.FileUpload) {
	for _, u := range uploads {
		if f.err != nil {
			return
		}
		part, err := f.w.CreateFormFile("attachments", filepath.Base(u.FileName))
		if err != nil {
			f.err = err
			return
		}
		_, f.err = part.Write(u.Data)
	}
}

func newForm(fill func(f *formWriter)) (*formBody, error) {
	buf := &bytes.Buffer{}
	f := &formWriter{w: multipart.NewWriter(buf)}
	fill(f)
	if f.err != nil {
		return nil, fmt.Errorf("encode form: %w", f.err)
	}
	if err := f.w.Close(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return &formBody{contentType: f.w.FormDataContentType(), body: buf}, nil
}

// encodeProjectInput writes a create request. Each assignee is its own
// "assignedUsers" part so servers that read a single value still get the
// first one.
func encodeProjectInput(in models.ProjectInput) (*formBody, error) {
	return newForm(func(f *formWriter) {
		f.field("title", in.Title)
		f.field("description", in.Description)
		f.field("status", in.Status.String())
		f.field("startDate", in.StartDate.Format(models.DateLayout))
		f.field("endDate", in.EndDate.Format(models.DateLayout))
		for _, id := range in.AssignedUsers {
			f.field("assignedUsers", id)
		}
		f.files(in.Attachments)
	})
}

// encodeProjectPatch writes only the fields present in the patch.
func encodeProjectPatch(p models.ProjectPatch) (*formBody, error) {
	return newForm(func(f *formWriter) {
		if p.Title != nil {
			f.field("title", *p.Title)
		}
		if p.Description != nil {
			f.field("description", *p.Description)
		}
		if p.Status != nil {
			f.field("status", p.Status.String())
		}
		f.files(p.Attachments)
	})
}
