package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"hotel-backend/internal/config"
)

// NewCORS builds the CORS layer for the reception and restaurant frontends.
// An empty origin list means a same-host deployment, where only simple
// requests arrive and a permissive default is fine.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: len(cfg.Server.CorsAllowedOrigins) > 0,
		MaxAge:           300,
	})

	return c.Handler
}
