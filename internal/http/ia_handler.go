package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"odontofast/internal/service"
)

// IAHandler expone predicción de duración, recomendaciones y el disparo
// administrativo de reentrenamiento.
type IAHandler struct {
	logger      *zap.Logger
	predictor   *service.PredictorService
	recommender *service.RecommenderService
	rateLimiter service.TrainRateLimiter
}

func NewIAHandler(
	logger *zap.Logger,
	predictor *service.PredictorService,
	recommender *service.RecommenderService,
	rateLimiter service.TrainRateLimiter,
) *IAHandler {
	return &IAHandler{
		logger:      logger,
		predictor:   predictor,
		recommender: recommender,
		rateLimiter: rateLimiter,
	}
}

// PredictDuration maneja POST /api/ia/prever-tratamento.
func (h *IAHandler) PredictDuration(c *gin.Context) {
	var req struct {
		UserID           int64   `json:"id_usuario" binding:"required"`
		TreatmentType    string  `json:"tipo_tratamento" binding:"required"`
		Complexity       float64 `json:"complexidade_tratamento"`
		HasComorbidities bool    `json:"possui_comorbidades"`
		HealthIndex      float64 `json:"indice_saude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid prediction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.predictor.PredictDuration(c.Request.Context(), service.PredictDurationInput{
		UserID:           req.UserID,
		TreatmentType:    req.TreatmentType,
		Complexity:       req.Complexity,
		HasComorbidities: req.HasComorbidities,
		HealthIndex:      req.HealthIndex,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("prediction failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not predict duration"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Recommend maneja POST /api/ia/recomendar.
func (h *IAHandler) Recommend(c *gin.Context) {
	var req struct {
		UserID        int64   `json:"id_usuario" binding:"required"`
		TreatmentType string  `json:"tipo_tratamento" binding:"required"`
		Progress      float64 `json:"progresso_atual"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recommendation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	bundle, err := h.recommender.Recommend(c.Request.Context(), service.RecommendationInput{
		UserID:        req.UserID,
		TreatmentType: req.TreatmentType,
		Progress:      req.Progress,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("recommendation failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate recommendations"})
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// TrainModel maneja POST /api/ia/treinar-modelo-duracao. Requiere JWT y pasa
// por el rate limiter por usuario autenticado.
func (h *IAHandler) TrainModel(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if h.rateLimiter != nil && !h.rateLimiter.Allow("user:"+strconv.FormatInt(claims.UserID, 10)) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many training requests"})
		return
	}

	if !h.predictor.TrainModel(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not train model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensagem": "Modelo treinado com sucesso."})
}
