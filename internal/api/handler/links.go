package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jon4hz/vazby/internal/api/models"
	"github.com/jon4hz/vazby/internal/directory"
)

type linkRequest struct {
	ID        *uint   `json:"id"`
	Nazev     *string `json:"nazev"`
	URL       *string `json:"url"`
	Popis     *string `json:"popis"`
	Kategorie *string `json:"kategorie"`
	Schvaleno *bool   `json:"schvaleno"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListLinks returns the links visible to the caller.
func (h *Handler) ListLinks(c *gin.Context) {
	links, err := h.engine.ListLinks(c.Request.Context(), PrincipalFrom(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vazby": models.ToLinks(links)})
}

// CreateLink adds a new link.
func (h *Handler) CreateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	link, err := h.engine.CreateLink(c.Request.Context(), PrincipalFrom(c), directory.LinkInput{
		Nazev:     deref(req.Nazev),
		URL:       deref(req.URL),
		Popis:     deref(req.Popis),
		Kategorie: deref(req.Kategorie),
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vazba": models.ToLink(*link)})
}

// UpdateLink applies a partial update. The id is taken from the path or the body.
func (h *Handler) UpdateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	id, err := resolveID(c, req.ID)
	if err != nil {
		badRequest(c, "link ID is required")
		return
	}

	link, err := h.engine.UpdateLink(c.Request.Context(), PrincipalFrom(c), id, directory.LinkPatch{
		Nazev:     req.Nazev,
		URL:       req.URL,
		Popis:     req.Popis,
		Kategorie: req.Kategorie,
		Schvaleno: req.Schvaleno,
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vazba": models.ToLink(*link)})
}

// DeleteLink removes a link.
func (h *Handler) DeleteLink(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		badRequest(c, "link ID is required")
		return
	}

	if err := h.engine.DeleteLink(c.Request.Context(), PrincipalFrom(c), id); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
