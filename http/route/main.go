package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/biblioteca-dev/book-asset-service/http/controller"
	middlewares "github.com/biblioteca-dev/book-asset-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}
	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1/library")
	{
		apiRoutes.GET("/health", ctrl.HealthCheck)

		bookRoutes := apiRoutes.Group("/books")
		{
			bookRoutes.POST("", ctrl.CreateBook)
			bookRoutes.GET("", ctrl.ListBooks)
			bookRoutes.GET("/:id", ctrl.GetBookByID)
			bookRoutes.DELETE("/:id", ctrl.DeleteBookByID)
			bookRoutes.GET("/:id/read", ctrl.ReadBook)
		}
	}
	return r
}
