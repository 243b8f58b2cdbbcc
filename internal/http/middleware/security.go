// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders. The API serves JSON (plus the Swagger
// UI when enabled), so only the headers that matter for that are sent.
// Responses of the resolution routes carry signed, expiring CDN URLs and are
// marked no-store; health, metrics and docs stay cacheable.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultHSTSMaxAge applies when HSTS is on and no max-age is configured.
const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS sends Strict-Transport-Security on HTTPS requests
	// (direct TLS or X-Forwarded-Proto: https). Never on plain HTTP.
	EnableHSTS bool
	HSTSMaxAge time.Duration // <= 0 means defaultHSTSMaxAge

	// NoStoreRoutes are Gin route patterns (c.FullPath()) whose responses
	// must not be cached.
	NoStoreRoutes []string
}

// SecurityHeaders sets on every response:
//
//	X-Content-Type-Options: nosniff
//	X-Frame-Options: DENY
//	Referrer-Policy: no-referrer
//
// plus Cache-Control: no-store on NoStoreRoutes and HSTS when enabled.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	hsts := hstsValue(opt.HSTSMaxAge)
	noStore := make(map[string]struct{}, len(opt.NoStoreRoutes))
	for _, p := range opt.NoStoreRoutes {
		noStore[p] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if _, ok := noStore[c.FullPath()]; ok {
			h.Set("Cache-Control", "no-store")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

func hstsValue(maxAge time.Duration) string {
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	return "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains"
}

// isHTTPS reports whether the request used HTTPS directly or via a reverse
// proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
