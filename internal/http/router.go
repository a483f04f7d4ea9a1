package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"odontofast/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtServ *service.JWTService,
	userH *UserHandler,
	imageH *UserImageHandler,
	iaH *IAHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api")

	users := api.Group("/usuarios")
	users.POST("", userH.CreateUser)
	users.GET("/:id", userH.GetUser)

	auth := api.Group("/auth")
	auth.POST("/login", userH.Login)

	images := api.Group("/imagens")
	images.GET("/:idUsuario", imageH.GetImage)
	images.POST("", imageH.CreateImage)
	images.PUT("/:idUsuario", imageH.UpdateImage)
	images.DELETE("/:idUsuario", imageH.DeleteImage)
	images.GET("/:idUsuario/exists", imageH.HasImage)

	ia := api.Group("/ia")
	ia.POST("/prever-tratamento", iaH.PredictDuration)
	ia.POST("/recomendar", iaH.Recommend)
	// El reentrenamiento es administrativo: requiere token.
	ia.POST("/treinar-modelo-duracao", JWTAuthMiddleware(jwtServ), iaH.TrainModel)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
