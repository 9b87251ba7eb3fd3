package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devang9890/resume/internal/application/usecase/auth"
	"github.com/devang9890/resume/pkg/apperror"
)

type AuthHandler struct {
	registerUseCase *auth.RegisterUseCase
	loginUseCase    *auth.LoginUseCase
	getMeUseCase    *auth.GetMeUseCase
}

func NewAuthHandler(registerUC *auth.RegisterUseCase, loginUC *auth.LoginUseCase, getMeUC *auth.GetMeUseCase) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUC,
		loginUseCase:    loginUC,
		getMeUseCase:    getMeUC,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewInvalidInput("name, email and password are required", err))
		return
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": output.AccessToken,
		"user":         ToUserDTO(output.User),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewInvalidInput("email and password are required", err))
		return
	}

	input := auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
		"user":         ToUserDTO(output.User),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		_ = c.Error(apperror.NewUnauthorized("owner information not found", nil))
		return
	}

	u, err := h.getMeUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": ToUserDTO(u)})
}
