package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/traceai/trace-client/internal/authflow"
	"github.com/traceai/trace-client/internal/models"
	"github.com/traceai/trace-client/internal/password"
)

func (sh *Shell) prompt(label string) string {
	fmt.Fprintf(sh.out, "%s: ", label)
	if !sh.in.Scan() {
		return ""
	}
	return strings.TrimSpace(sh.in.Text())
}

func (sh *Shell) loginScreen(ctx context.Context) {
	email := sh.prompt("Email")
	pwd := sh.prompt("Password")

	if msg := sh.accounts.Login(ctx, email, pwd); msg != "" {
		fmt.Fprintln(sh.out, msg)
		return
	}
	sh.path = RouteDashboard
	sh.render()
}

// promptPassword collects the signup password, re-evaluating strength after
// each attempt the way the form re-evaluates per keystroke, until all four
// requirements are satisfied or the user gives up with an empty line.
func (sh *Shell) promptPassword() (string, bool) {
	for {
		pwd := sh.prompt("Password (empty to cancel)")
		if pwd == "" {
			return "", false
		}
		s := password.Evaluate(pwd)
		if s.Score == password.MaxScore {
			return pwd, true
		}
		fmt.Fprintf(sh.out, "Password strength: %s (%d/4)\n", s.Tier(), s.Score)
		fmt.Fprintf(sh.out, "  [%s] 8+ Chars  [%s] 1 Number  [%s] 1 Upper  [%s] 1 Symbol\n",
			mark(s.MinLength), mark(s.HasNumber), mark(s.HasUpper), mark(s.HasSymbol))
	}
}

func mark(ok bool) string {
	if ok {
		return "x"
	}
	return " "
}

func (sh *Shell) signupScreen(ctx context.Context) {
	flow := authflow.NewSignupFlow(sh.api, sh.log)

	for flow.State() != authflow.SignupDone {
		switch flow.State() {
		case authflow.SignupEditing:
			fullName := sh.prompt("Full Name")
			email := sh.prompt("Email")
			role := models.Role(sh.prompt("Role (Student/Clinician)"))
			pwd, ok := sh.promptPassword()
			if !ok {
				return
			}
			flow.Submit(ctx, models.SignupDraft{FullName: fullName, Email: email, Password: pwd, Role: role})
			if msg := flow.Err(); msg != "" {
				fmt.Fprintln(sh.out, msg)
			}
		case authflow.SignupAwaitingOtp:
			challenge, _ := flow.Challenge()
			fmt.Fprintf(sh.out, "Code sent to %s\n", challenge.Email)
			input := sh.prompt("Verification code ('back' to change email, empty to cancel)")
			if input == "" {
				return
			}
			if input == "back" {
				flow.ChangeEmail()
				continue
			}
			flow.Verify(ctx, authflow.SanitizeOTP(input))
			if msg := flow.Err(); msg != "" {
				fmt.Fprintln(sh.out, msg)
			}
		}
	}

	fmt.Fprintln(sh.out, "Account Verified Successfully! Please log in.")
	sh.navigate(RouteLogin)
}

func (sh *Shell) forgotScreen(ctx context.Context) {
	flow := authflow.NewResetFlow(sh.api, sh.log)

	for flow.State() == authflow.ResetRequestingCode {
		email := sh.prompt("Email (empty to cancel)")
		if email == "" {
			return
		}
		flow.RequestCode(ctx, email)
		if msg := flow.Err(); msg != "" {
			fmt.Fprintln(sh.out, msg)
		}
	}

	fmt.Fprintln(sh.out, flow.Banner())
	for flow.State() == authflow.ResetAwaitingReset {
		code := sh.prompt("Verification code (empty to cancel)")
		if code == "" {
			return
		}
		newPwd := sh.prompt("New password")
		flow.Reset(ctx, code, newPwd)
		if msg := flow.Err(); msg != "" {
			fmt.Fprintln(sh.out, msg)
		}
	}

	fmt.Fprintln(sh.out, "Password Updated Successfully! Please Login.")
	sh.navigate(RouteLogin)
}

func (sh *Shell) settingsScreen(ctx context.Context) {
	if _, ok := sh.sessions.Load(); !ok {
		fmt.Fprintln(sh.out, "Sign in first.")
		sh.navigate(RouteLogin)
		return
	}

	current := sh.prompt("Current password")
	newPwd := sh.prompt("New password")
	confirm := sh.prompt("Confirm new password")

	msg, errMsg := sh.accounts.ChangePassword(ctx, current, newPwd, confirm)
	if errMsg != "" {
		fmt.Fprintln(sh.out, errMsg)
		return
	}
	fmt.Fprintln(sh.out, msg)
}
