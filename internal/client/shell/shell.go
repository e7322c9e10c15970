// Package shell composes the session store, access gate, and auth flows
// into the navigable terminal application. It holds no state of its own
// beyond the current path; everything it shows is re-read from the session
// store, so signing out immediately removes any role-gated surface.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/authflow"
	"github.com/traceai/trace-client/internal/client/session"
	"github.com/traceai/trace-client/internal/gate"
	"github.com/traceai/trace-client/internal/models"
)

// Shell is the interactive client.
type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	api      authflow.AuthAPI
	accounts *authflow.AccountService
	sessions *session.Store
	log      *zap.Logger

	path string
}

// New constructs a Shell reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, api authflow.AuthAPI, accounts *authflow.AccountService, sessions *session.Store, log *zap.Logger) *Shell {
	return &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		api:      api,
		accounts: accounts,
		sessions: sessions,
		log:      log,
		path:     RouteWelcome,
	}
}

// Run starts the command loop. It returns when input ends or on "exit".
func (sh *Shell) Run(ctx context.Context) {
	// A cleared session must yank the shell off any dashboard page even
	// when the clear happened outside the current screen.
	sh.sessions.Watch(func(id *models.Identity) {
		if id == nil && dashboardRoutes[sh.path] {
			sh.path = RouteLogin
		}
	})

	if id, ok := sh.sessions.Load(); ok {
		sh.path = RouteDashboard
		fmt.Fprintf(sh.out, "Welcome back, %s.\n", id.FullName)
	}
	sh.render()

	for {
		fmt.Fprint(sh.out, "trace> ")
		if !sh.in.Scan() {
			return
		}
		line := strings.TrimSpace(sh.in.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Fprintln(sh.out, "Commands: help, go <path>, nav, whoami, login, signup, forgot, passwd, logout, exit")
		case "go":
			if len(args) < 2 {
				fmt.Fprintln(sh.out, "Usage: go <path>")
				continue
			}
			sh.navigate(args[1])
		case "nav":
			sh.printNav()
		case "whoami":
			sh.printIdentity()
		case "login":
			sh.loginScreen(ctx)
		case "signup":
			sh.signupScreen(ctx)
		case "forgot":
			sh.forgotScreen(ctx)
		case "passwd":
			sh.settingsScreen(ctx)
		case "logout":
			sh.signOut()
		case "exit":
			fmt.Fprintln(sh.out, "Bye")
			return
		default:
			fmt.Fprintln(sh.out, "Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// navigate applies the redirect policy and renders the resulting page.
func (sh *Shell) navigate(path string) {
	id, _ := sh.sessions.Load()
	resolved := Resolve(path, id)
	if resolved != path {
		fmt.Fprintf(sh.out, "Redirected to %s\n", resolved)
	}
	sh.path = resolved

	switch resolved {
	case RouteLogin:
		fmt.Fprintln(sh.out, "[Login] Use the 'login' command to sign in, or 'forgot' to reset your password.")
	case RouteSignup:
		fmt.Fprintln(sh.out, "[Signup] Use the 'signup' command to create an account.")
	default:
		sh.render()
	}
}

func (sh *Shell) render() {
	id, _ := sh.sessions.Current()
	switch sh.path {
	case RouteWelcome:
		fmt.Fprintln(sh.out, "[Welcome] TRACE — AI-assisted dermatology. 'login' or 'signup' to begin.")
	case RouteAbout:
		fmt.Fprintln(sh.out, "[About] TRACE assists clinicians and students with skin image analysis.")
	case RouteTerms:
		fmt.Fprintln(sh.out, "[Terms] Use of TRACE is subject to the platform terms of service.")
	case RouteContact:
		fmt.Fprintln(sh.out, "[Contact] support@trace.example")
	case RouteDashboard:
		sh.renderDashboard(id, "Overview")
	case RouteUpload:
		sh.renderDashboard(id, "New Analysis")
	case RouteHistory:
		sh.renderDashboard(id, "History")
	case RouteProfile:
		sh.renderProfile(id)
	case RouteSettings:
		sh.renderDashboard(id, "Security Settings (use 'passwd' to change your password)")
	case RouteAdmin:
		sh.renderDashboard(id, "Admin Control Panel")
	}
}

func (sh *Shell) renderDashboard(id *models.Identity, title string) {
	if id == nil {
		return
	}
	fmt.Fprintf(sh.out, "[%s] %s — %s\n", title, id.FullName, gate.NormalizeRole(id.Role))
}

func (sh *Shell) renderProfile(id *models.Identity) {
	if id == nil {
		return
	}
	fmt.Fprintf(sh.out, "[My Profile]\n  Name:  %s\n  Email: %s\n  Role:  %s\n", id.FullName, id.Email, gate.NormalizeRole(id.Role))
	if exp, ok := sh.sessions.TokenExpiry(); ok {
		fmt.Fprintf(sh.out, "  Session token expires: %s\n", exp.Format("2006-01-02 15:04"))
	}
}

func (sh *Shell) printNav() {
	id, ok := sh.sessions.Load()
	if !ok {
		fmt.Fprintln(sh.out, "Sign in to see your navigation.")
		return
	}
	group := ""
	for _, e := range gate.VisibleNavItems(id) {
		if e.Group != group {
			group = e.Group
			fmt.Fprintf(sh.out, "%s:\n", group)
		}
		fmt.Fprintf(sh.out, "  %-20s %s\n", e.Name, e.Path)
	}
}

func (sh *Shell) printIdentity() {
	id, ok := sh.sessions.Load()
	if !ok {
		fmt.Fprintln(sh.out, "Not signed in.")
		return
	}
	fmt.Fprintf(sh.out, "%s <%s> (%s)\n", id.FullName, id.Email, gate.NormalizeRole(id.Role))
}

func (sh *Shell) signOut() {
	if err := sh.accounts.SignOut(); err != nil {
		sh.log.Error("sign-out failed", zap.Error(err))
		fmt.Fprintln(sh.out, "Could not clear the session.")
		return
	}
	sh.path = RouteLogin
	fmt.Fprintln(sh.out, "Signed out.")
}
