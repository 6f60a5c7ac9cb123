package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
)

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func firstNonEmpty(values ...flexString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

type wireIdentity struct {
	ID      flexString `json:"id"`
	MongoID flexString `json:"_id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Role    string     `json:"role"`
}

func (w wireIdentity) normalize() models.Identity {
	return models.Identity{
		ID:    firstNonEmpty(w.ID, w.MongoID),
		Name:  w.Name,
		Email: w.Email,
		Role:  models.ParseRole(w.Role),
	}
}

// wireRefs is a list of user references. The server has sent, over time, a
// single id, a comma separated id string, an array of ids and an array of
// embedded user objects.
type wireRefs []string

func (r *wireRefs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = nil
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] != '[' {
		ids, err := refIDs(b)
		if err != nil {
			return err
		}
		*r = ids
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	for _, item := range items {
		ids, err := refIDs(item)
		if err != nil {
			return err
		}
		*r = append(*r, ids...)
	}
	return nil
}

func refIDs(b json.RawMessage) ([]string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	if b[0] == '{' {
		var u wireIdentity
		if err := json.Unmarshal(b, &u); err != nil {
			return nil, err
		}
		if id := u.normalize().ID; id != "" {
			return []string{id}, nil
		}
		return nil, nil
	}

	var s flexString
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	var ids []string
	for _, part := range strings.Split(string(s), ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids, nil
}

// wireAttachments accepts strings or objects describing a stored file.
type wireAttachments []string

func (a *wireAttachments) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*a = nil
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '[' {
		b = append(append([]byte{'['}, b...), ']')
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var f struct {
				URL      string `json:"url"`
				Path     string `json:"path"`
				FileName string `json:"filename"`
				Name     string `json:"name"`
			}
			if err := json.Unmarshal(item, &f); err != nil {
				return err
			}
			if ref := firstNonEmpty(flexString(f.URL), flexString(f.Path), flexString(f.FileName), flexString(f.Name)); ref != "" {
				*a = append(*a, ref)
			}
			continue
		}
		var s flexString
		if err := json.Unmarshal(item, &s); err != nil {
			return err
		}
		if s != "" {
			*a = append(*a, string(s))
		}
	}
	return nil
}

type wireProject struct {
	ID            flexString      `json:"id"`
	MongoID       flexString      `json:"_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	DueDate       string          `json:"dueDate"`
	AssignedTo    wireRefs        `json:"assignedTo"`
	AssignedUsers wireRefs        `json:"assignedUsers"`
	Attachments   wireAttachments `json:"attachments"`
}

func (w wireProject) normalize() models.Project {
	end := w.EndDate
	if end == "" {
		end = w.DueDate
	}

	assigned := make([]string, 0, len(w.AssignedUsers)+len(w.AssignedTo))
	seen := make(map[string]struct{}, cap(assigned))
	for _, id := range append(append([]string{}, w.AssignedUsers...), w.AssignedTo...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		assigned = append(assigned, id)
	}

	return models.Project{
		ID:            firstNonEmpty(w.ID, w.MongoID),
		Title:         w.Title,
		Description:   w.Description,
		Status:        models.ParseStatus(w.Status),
		StartDate:     parseDate(w.StartDate),
		EndDate:       parseDate(end),
		AssignedUsers: assigned,
		Attachments:   []string(w.Attachments),
	}
}

var dateLayouts = []string{models.DateLayout, time.RFC3339Nano, time.RFC3339}

// parseDate returns the zero time for empty or unparseable input.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// unwrapList returns the array held in body, which is either the array
// itself or an object wrapping it under one of keys.
func unwrapList(body []byte, keys ...string) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("[]"), nil
	}
	if body[0] == '[' {
		return body, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: no list in response", ErrMalformedResponse)
}

// unwrapObject returns the object under key when body wraps it, otherwise
// body itself.
func unwrapObject(body []byte, key string) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return body
	}
	if v, ok := obj[key]; ok && len(bytes.TrimSpace(v)) > 0 && v[0] == '{' {
		return v
	}
	return body
}

func decodeProjects(body []byte) ([]models.Project, error) {
	raw, err := unwrapList(body, "data", "projects")
	if err != nil {
		return nil, err
	}
	var ws []wireProject
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	out := make([]models.Project, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.normalize())
	}
	return out, nil
}

// decodeProject accepts an empty body (204 or a bare 200) as an echo with no
// fields; callers fall back to what they sent.
func decodeProject(body []byte) (*models.Project, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &models.Project{}, nil
	}
	var w wireProject
	if err := json.Unmarshal(unwrapObject(unwrapObject(body, "data"), "project"), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	p := w.normalize()
	return &p, nil
}

func decodeIdentities(body []byte) ([]models.Identity, error) {
	raw, err := unwrapList(body, "data", "users")
	if err != nil {
		return nil, err
	}
	var ws []wireIdentity
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	out := make([]models.Identity, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.normalize())
	}
	return out, nil
}

func decodeIdentity(body []byte) (*models.Identity, error) {
	var w wireIdentity
	if err := json.Unmarshal(unwrapObject(unwrapObject(body, "data"), "user"), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	id := w.normalize()
	return &id, nil
}

// decodeAuth accepts {token, user:{...}} as well as the flat {token, ...user}.
func decodeAuth(body []byte) (*AuthResult, error) {
	var env struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	token := env.Token
	if token == "" {
		token = env.AccessToken
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no token in login response", ErrMalformedResponse)
	}

	identity, err := decodeIdentity(body)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Identity: *identity, Token: token}, nil
}
