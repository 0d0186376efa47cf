package main

import (
	"html/template"
	"time"

	appconfig "github.com/UnendingLoop/DroneGallery/internal/config"
	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
	"github.com/UnendingLoop/DroneGallery/internal/transport"
	"github.com/UnendingLoop/DroneGallery/internal/web"
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"
)

// newRouter builds the gin engine serving the gallery pages and assets
func newRouter(cfg *appconfig.AppConfig, tmpl *template.Template, handlers *transport.GalleryHandler) *ginext.Engine {
	engine := ginext.New(cfg.GinMode)
	engine.Use(ginext.Recovery())
	if len(cfg.AllowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Origin", "Content-Type", mwlogger.RequestIDHeader},
			MaxAge:       12 * time.Hour,
		}))
	}
	engine.SetHTMLTemplate(tmpl)
	engine.StaticFS("/static", web.Static())
	transport.RegisterRoutes(engine, handlers)
	return engine
}
