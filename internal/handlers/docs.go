package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kosarica/feed-service/docs"
)

// RegisterDocs serves the Swagger UI and the generated spec under /docs
func RegisterDocs(r gin.IRoutes) {
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
