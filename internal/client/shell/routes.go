package shell

import (
	"github.com/traceai/trace-client/internal/gate"
	"github.com/traceai/trace-client/internal/models"
)

// route paths known to the shell.
const (
	RouteWelcome        = "/"
	RouteLogin          = "/login"
	RouteSignup         = "/signup"
	RouteAbout          = "/about"
	RouteTerms          = "/terms"
	RouteContact        = "/contact"
	RouteForgotPassword = "/forgot-password"
	RouteDashboard      = "/dashboard"
	RouteUpload         = "/dashboard/upload"
	RouteHistory        = "/dashboard/history"
	RouteProfile        = "/dashboard/profile"
	RouteSettings       = "/dashboard/settings"
	RouteAdmin          = "/dashboard/admin"
)

// publicRoutes are reachable without a session.
var publicRoutes = map[string]bool{
	RouteWelcome:        true,
	RouteLogin:          true,
	RouteSignup:         true,
	RouteAbout:          true,
	RouteTerms:          true,
	RouteContact:        true,
	RouteForgotPassword: true,
}

// dashboardRoutes require a present session.
var dashboardRoutes = map[string]bool{
	RouteDashboard: true,
	RouteUpload:    true,
	RouteHistory:   true,
	RouteProfile:   true,
	RouteSettings:  true,
	RouteAdmin:     true,
}

// Resolve applies the navigation policy and returns the route actually
// rendered for the requested path: unknown paths land on the welcome page,
// dashboard paths without a session land on login, and the admin path
// without authorization lands on the dashboard.
func Resolve(path string, id *models.Identity) string {
	switch {
	case publicRoutes[path]:
		return path
	case dashboardRoutes[path]:
		if id == nil {
			return RouteLogin
		}
		if !gate.IsAuthorized(path, id) {
			return RouteDashboard
		}
		return path
	default:
		return RouteWelcome
	}
}
