package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/timmy/flowerpower/internal/api/handler"
	"github.com/timmy/flowerpower/internal/api/middleware"
	"github.com/timmy/flowerpower/internal/config"
	"github.com/timmy/flowerpower/internal/service"
	"github.com/timmy/flowerpower/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - lookup: lookup service backing the page and the JSON API.
//   - cfg: application configuration (server mode, CORS, image backend).
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(lookup *service.LookupService, cfg *config.Config) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	r.SetHTMLTemplate(template.Must(
		template.New("").
			Funcs(template.FuncMap{"title": service.TitleCase}).
			ParseFS(templateFS, "templates/*.html"),
	))

	// Create handlers
	healthHandler := handler.NewHealthHandler(lookup)
	pageHandler := handler.NewPageHandler(lookup)
	flowerHandler := handler.NewFlowerHandler(lookup)

	r.GET("/", pageHandler.Index)
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/flowers", flowerHandler.ListFlowers)
		v1.GET("/flowers/:name", flowerHandler.GetFlower)
		v1.GET("/meanings", flowerHandler.ListMeanings)
		v1.GET("/meanings/:meaning", flowerHandler.GetMeaning)
	}

	// Images on disk are served directly; S3 URLs point at the bucket.
	if cfg.Images.Backend == "" || cfg.Images.Backend == storage.BackendLocal {
		prefix := cfg.Images.URLPrefix
		if prefix == "" {
			prefix = "/images"
		}
		r.Static(prefix, cfg.Images.Dir)
	}

	return r
}
