// Package httpapi wires the HTTP transport (Gin) to the video service,
// middleware, and route handlers. It owns the cross-cutting concerns:
// tracing, correlation IDs, access logging, panic recovery, metrics,
// compression, CORS, and security headers.
//
// The route table is fixed at startup and holds no per-request state.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-insta-resolver/docs"
	"github.com/tbourn/go-insta-resolver/internal/config"
	"github.com/tbourn/go-insta-resolver/internal/http/handlers"
	"github.com/tbourn/go-insta-resolver/internal/http/middleware"
)

const (
	routeHealth         = "/health"
	routeGetVideoURL    = "/get_video_url"
	routeBatchVideoURLs = "/batch_video_urls"
)

// maxBodyBytes caps request bodies. A batch of a few thousand URLs fits.
const maxBodyBytes = 1 << 20

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. gzip
//  8. CORS and Security headers
func RegisterRoutes(r *gin.Engine, svc handlers.VideoService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:    cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		NoStoreRoutes: []string{routeGetVideoURL, routeBatchVideoURLs},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc)
	r.GET(routeHealth, h.Health)
	r.GET(routeGetVideoURL, h.GetVideoURL)
	r.POST(routeBatchVideoURLs, h.BatchVideoURLs)
}

// corsMiddleware allows every origin when none are configured, otherwise only
// the listed ones. Credentials are never allowed.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:     corsMethods,
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}

// limitBody caps the request body size to maxBytes using
// http.MaxBytesReader. Reads past the cap return *http.MaxBytesError.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
