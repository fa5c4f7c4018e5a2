package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

type StoryHandler struct {
	service ports.StoryService
}

func NewStoryHandler(service ports.StoryService) *StoryHandler {
	return &StoryHandler{service: service}
}

// BySeller handles GET /v1/sellers/:id/stories.
//
// @Summary      List an artisan's stories
// @Tags         stories
// @Produce      json
// @Param        id    path      string  true   "Seller id"
// @Param        page  query     int     false  "Page number (1-based)"
// @Success      200   {object}  listStoriesResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/sellers/{id}/stories [get]
func (h *StoryHandler) BySeller(c echo.Context) error {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.ListBySeller(c.Request().Context(), c.Param("id"), q.Page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoryListResponse(page))
}

// Latest handles GET /v1/sellers/:id/stories/latest.
//
// @Summary      Latest story of an artisan
// @Tags         stories
// @Produce      json
// @Param        id   path      string  true  "Seller id"
// @Success      200  {object}  storyResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/sellers/{id}/stories/latest [get]
func (h *StoryHandler) Latest(c echo.Context) error {
	story, err := h.service.Latest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoryResponse(*story))
}

// Create handles POST /v1/stories.
//
// @Summary      Publish a story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      storyRequest  true  "Story"
// @Success      201   {object}  storyResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/stories [post]
func (h *StoryHandler) Create(c echo.Context) error {
	var req storyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	story, err := h.service.Create(c.Request().Context(), ctxIdentity(c), req.raw())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStoryResponse(*story))
}

// Update handles PUT /v1/stories/:id.
//
// @Summary      Edit a story
// @Tags         stories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Story id"
// @Param        body  body      storyRequest  true  "Story"
// @Success      200   {object}  storyResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/stories/{id} [put]
func (h *StoryHandler) Update(c echo.Context) error {
	var req storyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	story, err := h.service.Update(c.Request().Context(), ctxIdentity(c), c.Param("id"), req.raw())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStoryResponse(*story))
}

// Delete handles DELETE /v1/stories/:id.
//
// @Summary      Delete a story
// @Tags         stories
// @Security     BearerAuth
// @Param        id   path  string  true  "Story id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/stories/{id} [delete]
func (h *StoryHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxIdentity(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
