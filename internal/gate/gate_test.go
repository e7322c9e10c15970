package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/traceai/trace-client/internal/models"
)

func TestVisibleNavItems_ByRole(t *testing.T) {
	tests := []struct {
		name      string
		id        *models.Identity
		wantAdmin bool
		wantCount int
	}{
		{name: "absent identity sees nothing", id: nil, wantCount: 0},
		{name: "student", id: &models.Identity{Role: models.RoleStudent}, wantCount: 3},
		{name: "clinician", id: &models.Identity{Role: models.RoleClinician}, wantCount: 3},
		{name: "admin", id: &models.Identity{Role: models.RoleAdmin}, wantAdmin: true, wantCount: 4},
		{name: "unknown role gates as student", id: &models.Identity{Role: "Superuser"}, wantCount: 3},
		{name: "empty role gates as student", id: &models.Identity{}, wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := VisibleNavItems(tt.id)
			assert.Len(t, items, tt.wantCount)

			hasAdmin := false
			for _, e := range items {
				if e.Group == GroupAdmin {
					hasAdmin = true
				}
			}
			assert.Equal(t, tt.wantAdmin, hasAdmin)
		})
	}
}

func TestVisibleNavItems_Order(t *testing.T) {
	items := VisibleNavItems(&models.Identity{Role: models.RoleAdmin})
	want := []string{"/dashboard", "/dashboard/upload", "/dashboard/history", "/dashboard/admin"}
	paths := make([]string, 0, len(items))
	for _, e := range items {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, want, paths)
}

func TestIsAuthorized(t *testing.T) {
	admin := &models.Identity{Role: models.RoleAdmin}
	student := &models.Identity{Role: models.RoleStudent}

	assert.True(t, IsAuthorized("/dashboard", student))
	assert.True(t, IsAuthorized("/dashboard/admin", admin))
	assert.False(t, IsAuthorized("/dashboard/admin", student))
	assert.False(t, IsAuthorized("/dashboard/admin", &models.Identity{Role: "Clinician"}))
	assert.False(t, IsAuthorized("/dashboard", nil))
	assert.False(t, IsAuthorized("/dashboard/admin", &models.Identity{Role: "admin"}))
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, models.RoleAdmin, NormalizeRole(models.RoleAdmin))
	assert.Equal(t, models.RoleClinician, NormalizeRole(models.RoleClinician))
	assert.Equal(t, models.RoleStudent, NormalizeRole(""))
	assert.Equal(t, models.RoleStudent, NormalizeRole("root"))
}
