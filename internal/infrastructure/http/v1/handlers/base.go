// Package handlers contains the HTTP handlers for the v1 API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"partstock/internal/core/apperror"
	"partstock/internal/core/id"
	"partstock/internal/domain/store"
	"partstock/pkg/logger"
)

// BaseHandler bundles the collaborators every handler needs.
type BaseHandler struct {
	registry      *store.Registry
	defaultBranch string
	log           *logger.Logger
}

// NewBaseHandler creates a base handler.
func NewBaseHandler(registry *store.Registry, defaultBranch string, log *logger.Logger) BaseHandler {
	return BaseHandler{registry: registry, defaultBranch: defaultBranch, log: log}
}

// Store resolves the catalog store for the request's branch. The branch
// comes from the "branch" query parameter and falls back to the
// configured default.
func (h *BaseHandler) Store(c *gin.Context) (*store.Store, string, error) {
	branch := c.Query("branch")
	if branch == "" {
		branch = h.defaultBranch
	}
	s, err := h.registry.ForBranch(c.Request.Context(), branch)
	if err != nil {
		return nil, branch, err
	}
	return s, branch, nil
}

// BindJSON binds the request body and wraps binding failures in a
// validation error.
func (h *BaseHandler) BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.NewValidation("invalid request body").
			WithDetail("error", err.Error())
	}
	return nil
}

// PathID parses a uuid path parameter.
func (h *BaseHandler) PathID(c *gin.Context, name string) (id.ID, error) {
	raw := c.Param(name)
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id").
			WithDetail("param", name).
			WithDetail("value", raw)
	}
	return parsed, nil
}

// Fail records err on the context and aborts the chain; the error
// middleware renders the response.
func (h *BaseHandler) Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
