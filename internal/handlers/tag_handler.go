package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grana/internal/services"
)

// TagHandler handles tag-related requests. Tags are read-only: they are
// seeded by migrations and shared across all users.
type TagHandler struct {
	tagService services.TagServicer
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService services.TagServicer) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags returns all tags
// @Summary     List tags
// @Description List all tags available for transactions
// @Tags        tags
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Tags"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
