package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = Identity{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: RoleAdmin}
	alice = Identity{ID: "2", Name: "Alice", Email: "alice@example.com", Role: RoleUser}
	bob   = Identity{ID: "3", Name: "Bob", Email: "bob@example.com", Role: RoleUser}
)

func TestProject_VisibleTo(t *testing.T) {
	p1 := Project{ID: "p1", AssignedUsers: []string{alice.ID}}
	p2 := Project{ID: "p2", AssignedUsers: []string{bob.ID}}
	p3 := Project{ID: "p3", AssignedUsers: []string{bob.ID, alice.ID}}

	assert.True(t, p1.VisibleTo(alice))
	assert.False(t, p2.VisibleTo(alice))
	assert.True(t, p3.VisibleTo(alice))
	assert.True(t, p2.VisibleTo(admin))

	assert.False(t, Project{}.VisibleTo(Identity{Role: RoleUser}))
	assert.False(t, Project{AssignedUsers: []string{""}}.IsAssignedTo(""))
}

func TestVisible_UserSeesOnlyAssigned_AdminSeesAll(t *testing.T) {
	p1 := Project{ID: "p1", AssignedUsers: []string{alice.ID}}
	p2 := Project{ID: "p2", AssignedUsers: []string{bob.ID}}
	all := []Project{p1, p2}

	require.Equal(t, []Project{p1}, Visible(alice, all))
	require.Equal(t, all, Visible(admin, all))
	require.Empty(t, Visible(Identity{ID: "nobody"}, all))
}

func TestProject_ApplyChangesOnlySetFields(t *testing.T) {
	orig := Project{
		ID:            "1",
		Title:         "Website Redesign",
		Description:   "Redesign company website",
		Status:        StatusActive,
		AssignedUsers: []string{"2"},
	}
	done := StatusCompleted

	got := orig.Apply(ProjectPatch{Status: &done})

	want := orig.Clone()
	want.Status = StatusCompleted
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Apply() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, StatusActive, orig.Status, "receiver must not change")
}

func TestProject_CloneIsDeep(t *testing.T) {
	orig := Project{AssignedUsers: []string{"a"}, Attachments: []string{"x"}}
	c := orig.Clone()
	c.AssignedUsers[0] = "b"
	c.Attachments[0] = "y"

	assert.Equal(t, "a", orig.AssignedUsers[0])
	assert.Equal(t, "x", orig.Attachments[0])
}

func TestProjectPatch_IsEmpty(t *testing.T) {
	title := "t"
	assert.True(t, ProjectPatch{}.IsEmpty())
	assert.False(t, ProjectPatch{Title: &title}.IsEmpty())
	assert.False(t, ProjectPatch{Attachments: []FileUpload{{FileName: "a.txt"}}}.IsEmpty())
}
