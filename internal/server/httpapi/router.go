// Package httpapi exposes the gophtasks services over HTTP with gin: the
// JSON API under /api, the health probe and the two HTML pages.
package httpapi

import (
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const serviceName = "gophtasks"

// NewRouter builds the gin engine with all routes registered. An empty
// origins list disables CORS.
func NewRouter(origins []string, users UserService, tasks TaskService, logger logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	if len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{
			"Origin",
			"Content-Type",
			"Accept",
			common.AuthorizationHeaderName,
		}
		router.Use(cors.New(corsConfig))
	}

	router.SetHTMLTemplate(loadTemplates())

	setupRoutes(router, users, tasks, logger)
	return router
}

func setupRoutes(router *gin.Engine, users UserService, tasks TaskService, logger logging.Logger) {
	router.GET("/health", handleHealth)
	router.GET("/", handleRoot)
	router.GET("/login", handleLoginPage)
	router.GET("/tasks", handleTasksPage)

	api := router.Group("/api")
	{
		api.POST("/register", RegisterHandler(users, logger))
		api.POST("/login", LoginHandler(users, logger))

		protected := api.Group("")
		protected.Use(requireToken(users, logger))
		{
			protected.POST("/logout", LogoutHandler(users, logger))
			protected.GET("/user", MeHandler())

			protected.GET("/tasks", ListTasksHandler(tasks, logger))
			protected.POST("/tasks", CreateTaskHandler(tasks, logger))
			protected.GET("/tasks/:id", GetTaskHandler(tasks, logger))
			protected.PUT("/tasks/:id", UpdateTaskHandler(tasks, logger))
			protected.PATCH("/tasks/:id", UpdateTaskHandler(tasks, logger))
			protected.DELETE("/tasks/:id", DeleteTaskHandler(tasks, logger))
		}
	}
}
