// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

const (
	msgEntryTextRequired   = "O texto da referência é obrigatório"
	msgProjectNameRequired = "O nome do projeto é obrigatório"
	msgNotFound            = "Não encontrado"
)

// storeError maps library errors onto HTTP responses.
func storeError(c *gin.Context, err error) {
	c.Error(err)
	if errors.Is(err, library.ErrNotFound) {
		fail(c, http.StatusNotFound, msgNotFound)
		return
	}
	fail(c, http.StatusInternalServerError, internalError)
}

func (s *Server) listEntries(c *gin.Context) {
	f := library.Filter{
		Query:     c.Query("q"),
		ProjectID: c.Query("project"),
	}
	if t := c.Query("type"); t != "" {
		f.Type, _ = types.ParseSourceType(t)
	}

	entries, err := s.store.List(c.Request.Context(), f)
	if err != nil {
		storeError(c, err)
		return
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "references": entries})
}

func (s *Server) addEntry(c *gin.Context) {
	var e types.Entry
	if err := c.ShouldBindJSON(&e); err != nil || strings.TrimSpace(e.Text) == "" {
		fail(c, http.StatusBadRequest, msgEntryTextRequired)
		return
	}
	stored, err := s.store.Add(c.Request.Context(), e)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "reference": stored})
}

func (s *Server) removeEntry(c *gin.Context) {
	if err := s.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// exportEntries returns the selected entries (ids=a,b) or the whole
// library as plain text, one reference per paragraph.
func (s *Server) exportEntries(c *gin.Context) {
	var ids []string
	if raw := c.Query("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	text, err := s.store.ExportText(c.Request.Context(), ids)
	if err != nil {
		storeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="referencias-abnt.txt"`)
	c.String(http.StatusOK, text)
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	if projects == nil {
		projects = []types.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

type projectRequest struct {
	Name string `json:"name"`
}

func (s *Server) addProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, msgProjectNameRequired)
		return
	}
	p, err := s.store.AddProject(c.Request.Context(), req.Name)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "project": p})
}

func (s *Server) removeProject(c *gin.Context) {
	detached, err := s.store.RemoveProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "detached": detached})
}
