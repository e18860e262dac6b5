// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/abnt-engine/internal/citation"
	"github.com/pdiddy/abnt-engine/internal/csl"
	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/internal/reference"
	"github.com/pdiddy/abnt-engine/internal/validate"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

const (
	msgFormatRequired    = "Tipo e dados são obrigatórios"
	msgReferenceRequired = "Referência é obrigatória"
	msgSyncNotArray      = "Referências devem ser um array"
	msgSynced            = "Referências sincronizadas com sucesso"
	msgInvalidCSL        = "CSL inválido"
)

type formatRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func (s *Server) formatReference(c *gin.Context) {
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Type == "" || req.Data == nil {
		fail(c, http.StatusBadRequest, msgFormatRequired)
		return
	}

	formatted := s.formatter.Format(reference.Decode(req.Type, req.Data))
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"formattedReference": formatted.String(),
		"html":               reference.HTML(formatted),
		"type":               req.Type,
	})
}

type validateRequest struct {
	Reference string `json:"reference"`
}

type validateResponse struct {
	Success bool `json:"success"`
	types.ValidationReport
}

func (s *Server) validateReference(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reference == "" {
		fail(c, http.StatusBadRequest, msgReferenceRequired)
		return
	}
	c.JSON(http.StatusOK, validateResponse{Success: true, ValidationReport: validate.Validate(req.Reference)})
}

type syncRequest struct {
	References json.RawMessage `json:"references"`
	UserID     string          `json:"userId"`
}

// syncReference is the client-side library record. It accepts both the
// legacy "project" key and "projectId".
type syncReference struct {
	ID        string   `json:"id"`
	Text      any      `json:"text"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Tags      []string `json:"tags"`
	Project   string   `json:"project"`
	ProjectID string   `json:"projectId"`
	CreatedAt string   `json:"createdAt"`
}

func (r syncReference) entry() types.Entry {
	e := types.Entry{
		ID:        r.ID,
		Type:      types.SourceType(r.Type),
		Title:     r.Title,
		Author:    r.Author,
		Tags:      r.Tags,
		ProjectID: r.ProjectID,
	}
	if e.ProjectID == "" {
		e.ProjectID = r.Project
	}
	if r.Text != nil {
		e.Text = fmt.Sprint(r.Text)
	}
	if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		e.CreatedAt = t
	}
	return e
}

func (s *Server) syncReferences(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgSyncNotArray)
		return
	}
	var incoming []syncReference
	if len(req.References) == 0 || req.References[0] != '[' || json.Unmarshal(req.References, &incoming) != nil {
		fail(c, http.StatusBadRequest, msgSyncNotArray)
		return
	}

	now := s.now()
	entries := make([]types.Entry, len(incoming))
	for i, r := range incoming {
		entries[i] = library.Normalize(r.entry(), now)
	}

	added, err := s.store.Import(c.Request.Context(), entries)
	if err != nil {
		c.Error(err)
		fail(c, http.StatusInternalServerError, internalError)
		return
	}
	s.logger.Info("references synced",
		"received", len(entries), "added", added,
		"user_id", req.UserID, "request_id", requestIDFrom(c))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    msgSynced,
		"references": entries,
		"added":      added,
		"syncedAt":   now.UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) generateCitations(c *gin.Context) {
	var f types.CitationFields
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, http.StatusBadRequest, "JSON inválido")
		return
	}
	ready := citation.Ready(f)
	citations := []citation.Citation{}
	if ready {
		citations = citation.All(f)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"ready":     ready,
		"citations": citations,
	})
}

type cslReference struct {
	ID                 string           `json:"id"`
	Type               types.SourceType `json:"type"`
	FormattedReference string           `json:"formattedReference"`
}

// formatCSL formats every item of a CSL-JSON body.
func (s *Server) formatCSL(c *gin.Context) {
	items, err := csl.Read(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, msgInvalidCSL)
		return
	}
	out := make([]cslReference, len(items))
	for i, it := range items {
		fields := csl.Fields(it)
		out[i] = cslReference{
			ID:                 it.ID,
			Type:               fields.SourceType(),
			FormattedReference: s.formatter.FormatString(fields),
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "references": out})
}
