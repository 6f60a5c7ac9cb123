package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/client/repositories/attachments"
	"github.com/dmitrijs2005/projecthub/internal/client/services"
	"github.com/dmitrijs2005/projecthub/internal/client/session"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

// SessionView reports who is logged in.
type SessionView interface {
	Identity() (models.Identity, bool)
}

// AttachmentSource serves stored attachment content. Only the local backend
// has one.
type AttachmentSource interface {
	Attachment(ctx context.Context, ref string) (*attachments.File, error)
}

// Deps are the collaborators of an App. In and Out default to the process's
// stdin and stdout.
type Deps struct {
	Auth     services.AuthService
	Projects services.ProjectService
	Users    services.UserService
	Session  SessionView

	// Metrics is optional; without it the stats command reports nothing.
	Metrics prometheus.Gatherer
	// Attachments is optional; without it download is unavailable.
	Attachments AttachmentSource

	Logger logging.Logger
	In     io.Reader
	Out    io.Writer
}

type App struct {
	authService    services.AuthService
	projectService services.ProjectService
	userService    services.UserService
	session        SessionView
	metrics        prometheus.Gatherer
	attachments    AttachmentSource
	logger         logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(d Deps) *App {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	return &App{
		authService:    d.Auth,
		projectService: d.Projects,
		userService:    d.Users,
		session:        d.Session,
		metrics:        d.Metrics,
		attachments:    d.Attachments,
		logger:         d.Logger.With("component", "cli"),
		reader:         bufio.NewReader(d.In),
		out:            d.Out,
	}
}

// Run greets the user and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)

	fmt.Fprintln(a.out, "Welcome to projecthub CLI (type 'help' for commands)")
	if identity, ok := a.session.Identity(); ok {
		a.projectService.Refresh(ctx)
		if a.isLoggedIn() {
			fmt.Fprintf(a.out, "Welcome back, %s.\n", identity.Name)
		} else {
			renderError(a.out, client.ErrUnauthorized)
		}
	}

	runREPL(ctx, a, a.reader, a.out, a.getStatus)
}

// OnSessionChange drops the directory caches whenever the session ends,
// including when the backend rejects the token.
func (a *App) OnSessionChange(state session.State) {
	if state == session.StateAuthenticated {
		return
	}
	a.projectService.Reset()
	a.userService.Reset()
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Identity()
	return ok
}

func (a *App) isAdmin() bool {
	identity, ok := a.session.Identity()
	return ok && identity.IsAdmin()
}

func (a *App) getStatus() string {
	identity, ok := a.session.Identity()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s %s)", identity.Email, identity.Role)
}
