// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/abnt-engine/internal/csl"
	"github.com/pdiddy/abnt-engine/internal/metadata"
)

const (
	msgURLRequired = "URL é obrigatória"
	msgDOIRequired = "DOI é obrigatório"
)

type extractRequest struct {
	URL string `json:"url"`
}

// extractURL fetches page metadata and drafts a website reference.
// Fetch failures are reported with status 200 and success=false.
func (s *Server) extractURL(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		fail(c, http.StatusBadRequest, msgURLRequired)
		return
	}
	if _, err := metadata.ValidateURL(req.URL); err != nil {
		fail(c, http.StatusBadRequest, metadata.ErrInvalidURL.Error())
		return
	}

	meta, err := s.extractor.Extract(c.Request.Context(), req.URL)
	if err != nil {
		s.logger.Warn("metadata extraction failed",
			"url", req.URL, "error", err, "request_id", requestIDFrom(c))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"data":          meta,
		"abntReference": metadata.Reference(s.formatter, meta),
	})
}

type doiRequest struct {
	DOI string `json:"doi"`
}

// extractDOI resolves a DOI and formats the matching reference. Lookup
// failures follow extractURL and are reported with status 200.
func (s *Server) extractDOI(c *gin.Context) {
	var req doiRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DOI) == "" {
		fail(c, http.StatusBadRequest, msgDOIRequired)
		return
	}
	if _, err := metadata.NormalizeDOI(req.DOI); err != nil {
		fail(c, http.StatusBadRequest, metadata.ErrInvalidDOI.Error())
		return
	}

	item, err := s.resolver.Resolve(c.Request.Context(), req.DOI)
	if err != nil {
		s.logger.Warn("DOI lookup failed",
			"doi", req.DOI, "error", err, "request_id", requestIDFrom(c))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	fields := csl.Fields(item)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"data":          item,
		"type":          fields.SourceType(),
		"abntReference": s.formatter.FormatString(fields),
	})
}
