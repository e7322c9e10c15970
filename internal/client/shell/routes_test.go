package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/traceai/trace-client/internal/models"
)

func TestResolve(t *testing.T) {
	admin := &models.Identity{Role: models.RoleAdmin}
	student := &models.Identity{Role: models.RoleStudent}

	tests := []struct {
		name string
		path string
		id   *models.Identity
		want string
	}{
		{name: "public route anonymous", path: RouteLogin, id: nil, want: RouteLogin},
		{name: "public route authenticated", path: RouteAbout, id: student, want: RouteAbout},
		{name: "dashboard without session redirects to login", path: RouteDashboard, id: nil, want: RouteLogin},
		{name: "history without session redirects to login", path: RouteHistory, id: nil, want: RouteLogin},
		{name: "dashboard with session", path: RouteDashboard, id: student, want: RouteDashboard},
		{name: "admin route for admin", path: RouteAdmin, id: admin, want: RouteAdmin},
		{name: "admin route for student falls back to dashboard", path: RouteAdmin, id: student, want: RouteDashboard},
		{name: "admin route anonymous redirects to login", path: RouteAdmin, id: nil, want: RouteLogin},
		{name: "admin route with tampered role fails closed", path: RouteAdmin, id: &models.Identity{Role: "ADMIN"}, want: RouteDashboard},
		{name: "unknown path anonymous", path: "/nope", id: nil, want: RouteWelcome},
		{name: "unknown path authenticated", path: "/dashboard/secret", id: admin, want: RouteWelcome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path, tt.id))
		})
	}
}
