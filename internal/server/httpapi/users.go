package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/server/services"
)

type registerRequest struct {
	Email              string   `json:"email" binding:"required"`
	Password           string   `json:"password" binding:"required"`
	Password2          string   `json:"password2" binding:"required"`
	AccessToken        string   `json:"accessToken"`
	RefreshToken       string   `json:"refreshToken"`
	SubscriptionExpiry string   `json:"subscriptionExpiry"`
	Firma              string   `json:"firma"`
	NombreBar          string   `json:"nombreBar"`
	DireccionBar       string   `json:"direccionBar"`
	CosteCancion       *float64 `json:"costeCancion"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	err := s.users.Register(c.Request.Context(), services.RegisterParams{
		Email:              req.Email,
		Password:           req.Password,
		PasswordConfirm:    req.Password2,
		AccessToken:        req.AccessToken,
		RefreshToken:       req.RefreshToken,
		SubscriptionExpiry: req.SubscriptionExpiry,
		Signature:          req.Firma,
		BarName:            req.NombreBar,
		BarAddress:         req.DireccionBar,
		SongPrice:          req.CosteCancion,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Usuario registrado. Revisa tu correo para activar la cuenta."})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// handleActivate serves the link mailed at registration. A token
// mismatch answers 400, unlike the other validation failures.
func (s *Server) handleActivate(c *gin.Context) {
	err := s.users.Activate(c.Request.Context(), c.Param("email"), c.Query("token"))
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cuenta activada"})
}

func (s *Server) handleIsActive(c *gin.Context) {
	active, err := s.users.IsActive(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), c.Param("email")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado"})
}

func (s *Server) handleActivationURL(c *gin.Context) {
	url, err := s.users.ActivationURL(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type userDataResponse struct {
	Email              string     `json:"email"`
	NombreBar          string     `json:"nombreBar"`
	DireccionBar       string     `json:"direccionBar"`
	Latitud            *float64   `json:"latitud"`
	Longitud           *float64   `json:"longitud"`
	CosteCancion       *float64   `json:"costeCancion"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry"`
	Active             bool       `json:"active"`
}

func (s *Server) handleUserData(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, userDataResponse{
		Email:              user.Email,
		NombreBar:          user.BarName,
		DireccionBar:       user.BarAddress,
		Latitud:            user.Latitude,
		Longitud:           user.Longitude,
		CosteCancion:       user.SongPrice,
		SubscriptionExpiry: user.SubscriptionExpiry,
		Active:             user.IsActive(),
	})
}

func (s *Server) handleGetBarData(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nombreBar":    user.BarName,
		"direccionBar": user.BarAddress,
		"latitud":      user.Latitude,
		"longitud":     user.Longitude,
	})
}

type barDataRequest struct {
	NombreBar    string `json:"nombreBar" binding:"required"`
	DireccionBar string `json:"direccionBar" binding:"required"`
}

func (s *Server) handleSetBarData(c *gin.Context) {
	var req barDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	if err := s.users.SetBarData(c.Request.Context(), c.Param("email"), req.DireccionBar, req.NombreBar); err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Datos del bar actualizados"})
}

func (s *Server) handleGetSongPrice(c *gin.Context) {
	price, err := s.users.SongPrice(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"costeCancion": price})
}

type songPriceRequest struct {
	CosteCancion *float64 `json:"costeCancion" binding:"required"`
}

func (s *Server) handleSetSongPrice(c *gin.Context) {
	var req songPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	if err := s.users.SetSongPrice(c.Request.Context(), c.Param("email"), *req.CosteCancion); err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coste de canción actualizado"})
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (s *Server) handleUpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	if err := s.users.UpdatePassword(c.Request.Context(), c.Param("email"), req.OldPassword, req.NewPassword); err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada"})
}

func (s *Server) handleSignature(c *gin.Context) {
	sig, err := s.users.Signature(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"firma": sig})
}

func (s *Server) handleAccessToken(c *gin.Context) {
	token, err := s.users.AccessToken(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleRefreshToken(c *gin.Context) {
	token, err := s.users.RefreshToken(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleSubscriptionActive(c *gin.Context) {
	active, err := s.users.HasActiveSubscription(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

type proximityRequest struct {
	Latitud  *float64 `json:"latitud" binding:"required"`
	Longitud *float64 `json:"longitud" binding:"required"`
}

func (s *Server) handleCheckProximity(c *gin.Context) {
	var req proximityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	near, err := s.users.CheckProximity(c.Request.Context(), c.Param("email"), *req.Latitud, *req.Longitud)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inRange":      near,
		"radiusMeters": s.users.ProximityRadius(),
	})
}
