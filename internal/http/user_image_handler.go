package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"odontofast/internal/service"
)

// UserImageHandler expone el CRUD de la imagen de perfil.
type UserImageHandler struct {
	logger    *zap.Logger
	imageServ *service.UserImageService
}

func NewUserImageHandler(logger *zap.Logger, imageServ *service.UserImageService) *UserImageHandler {
	return &UserImageHandler{logger: logger, imageServ: imageServ}
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("idUsuario"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// GetImage maneja GET /api/imagens/:idUsuario.
func (h *UserImageHandler) GetImage(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	image, err := h.imageServ.GetImage(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user image not found"})
			return
		}
		h.logger.Error("get image failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch image"})
		return
	}

	c.JSON(http.StatusOK, image)
}

// CreateImage maneja POST /api/imagens.
func (h *UserImageHandler) CreateImage(c *gin.Context) {
	var req struct {
		UserID    int64  `json:"id_usuario" binding:"required"`
		ImagePath string `json:"caminho_img" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create image request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	image, err := h.imageServ.CreateImage(c.Request.Context(), req.UserID, req.ImagePath)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrImageExists):
			c.JSON(http.StatusConflict, gin.H{"error": "user image already exists"})
		case errors.Is(err, service.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image path"})
		default:
			h.logger.Error("create image failed", zap.Int64("user_id", req.UserID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create image"})
		}
		return
	}

	c.JSON(http.StatusCreated, image)
}

// UpdateImage maneja PUT /api/imagens/:idUsuario.
func (h *UserImageHandler) UpdateImage(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req struct {
		ImagePath string `json:"caminho_img" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update image request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	image, err := h.imageServ.UpdateImage(c.Request.Context(), userID, req.ImagePath)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user image not found"})
		case errors.Is(err, service.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image path"})
		default:
			h.logger.Error("update image failed", zap.Int64("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update image"})
		}
		return
	}

	c.JSON(http.StatusOK, image)
}

// DeleteImage maneja DELETE /api/imagens/:idUsuario.
func (h *UserImageHandler) DeleteImage(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.imageServ.DeleteImage(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user image not found"})
		default:
			h.logger.Error("delete image failed", zap.Int64("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete image"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensagem": "Imagem de usuário excluída com sucesso."})
}

// HasImage maneja GET /api/imagens/:idUsuario/exists.
func (h *UserImageHandler) HasImage(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	exists, err := h.imageServ.HasImage(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("image exists check failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id_usuario": userID, "possui_imagem": exists})
}
