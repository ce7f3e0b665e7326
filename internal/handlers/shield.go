// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.
package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ChinmayIngle26/PhishGuard/internal/models"
	"github.com/ChinmayIngle26/PhishGuard/internal/scan"
)

// overrideParam marks a navigation the user has explicitly chosen to
// proceed with. The extension skips URLs carrying it, so the override
// holds for exactly that navigation.
const overrideParam = "phishguard-override"

type ShieldHandler struct {
	Pipeline *scan.Pipeline
}

func NewShieldHandler(pipeline *scan.Pipeline) *ShieldHandler {
	return &ShieldHandler{Pipeline: pipeline}
}

// Shield handles GET /shield, the interstitial the extension redirects
// blocked navigations to. It re-scans the target (the verdict cache
// absorbs the repeat) and offers a single-use proceed link carrying the
// override parameter.
func (h *ShieldHandler) Shield(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.String(http.StatusBadRequest, "Missing url parameter")
		return
	}

	proceedURL, err := withOverride(target)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid url parameter")
		return
	}

	data := gin.H{
		"Target":     target,
		"ProceedURL": proceedURL,
		"Assessed":   false,
	}

	verdict, err := h.Pipeline.ScanURL(c.Request.Context(), target)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.String(http.StatusBadRequest, "Invalid url parameter")
			return
		}
		// Classifier down. The user was already redirected off a
		// dangerous verdict, so keep warning rather than failing open.
		c.HTML(http.StatusOK, "shield.html", data)
		return
	}

	data["Assessed"] = true
	data["RiskLevel"] = verdict.RiskLevel
	data["Band"] = models.RiskBand(verdict.RiskLevel)
	data["Reason"] = verdict.Reason
	data["Recommendation"] = verdict.Recommendation
	c.HTML(http.StatusOK, "shield.html", data)
}

func withOverride(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(overrideParam, "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
