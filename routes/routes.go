package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/jutlandia/jutlandia-site-go/config"
	controllers "github.com/jutlandia/jutlandia-site-go/controllers"
	discord "github.com/jutlandia/jutlandia-site-go/discord"
	middleware "github.com/jutlandia/jutlandia-site-go/middleware"
	store "github.com/jutlandia/jutlandia-site-go/store"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, events store.EventStore, dc *discord.Client) {
	// public
	r.GET("/", controllers.Index(events))
	r.GET("/oauth", controllers.OAuthEntry(dc))

	// protected
	auth := middleware.RequireGuildAdmin(cfg, dc)

	admin := r.Group("/admin")
	admin.Use(auth)
	{
		admin.GET("", controllers.AdminList(events))
		admin.GET("/edit_event/:id", controllers.EditEvent(events))
	}

	api := r.Group("/api")
	api.Use(auth)
	{
		api.POST("/add_event", controllers.AddEvent(events))
		api.POST("/update_event", controllers.UpdateEvent(events))
		api.GET("/delete_event", controllers.DeleteEvent(events))
	}
}
