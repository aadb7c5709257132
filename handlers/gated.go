package handlers

import (
	"net/http"

	"meditravel/middleware"
	"meditravel/models"

	"github.com/gin-gonic/gin"
)

// RenderGated resolves which of two payloads an identity may see. While the
// identity is still loading it returns nil: neither the gated fragment nor the
// fallback must flash before access is known. Unauthenticated identities get
// the fallback, as do authenticated ones that fail the requirement.
func RenderGated(identity models.Identity, requirement models.Requirement, fragment, fallback interface{}) interface{} {
	if identity.Loading {
		return nil
	}
	if !identity.Authenticated() {
		return fallback
	}
	if !requirement.SatisfiedBy(identity) {
		return fallback
	}
	return fragment
}

// DashboardHandler assembles the caller's dashboard. Sections that require a
// role the caller lacks degrade to an upsell stub rather than an error.
func (h *HandlerBundle) DashboardHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	providerSection := RenderGated(identity,
		models.Requirement{Roles: []string{models.RoleHealthcareProvider}},
		gin.H{"type": "provider-panel", "links": []string{"/provider/schedule", "/provider/patients"}},
		gin.H{"type": "provider-teaser", "apply": "/api/provider/apply"},
	)
	adminSection := RenderGated(identity,
		models.Requirement{Roles: []string{models.RoleAdmin}},
		gin.H{"type": "admin-panel", "links": []string{"/admin/applications", "/admin/users"}},
		nil,
	)

	resp := gin.H{
		"identity": identity,
		"provider": providerSection,
	}
	if adminSection != nil {
		resp["admin"] = adminSection
	}
	c.JSON(http.StatusOK, resp)
}
