package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/feed-service/internal/markup"
)

// TransformMarkup converts an ESTree/Babel component AST into the page model
// @Summary Transform markup to a page model
// @Tags markup
// @Accept json
// @Produce json
// @Success 200 {object} markup.ModelNode
// @Failure 400 {object} ErrorResponse
// @Router /internal/markup/transform [post]
func (h *Handler) TransformMarkup(c *gin.Context) {
	body, err := h.readBody(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	prog, err := markup.DecodeProgram(body)
	if err != nil {
		badRequest(c, err)
		return
	}

	registry := h.Components
	if registry == nil {
		registry = markup.NewComponentRegistry()
	}
	model, err := markup.NewTransformer(registry).Transform(prog)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model)
}
