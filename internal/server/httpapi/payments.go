package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/server/services"
)

func (s *Server) handleSubscriptionCost(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cost":     s.payments.SubscriptionPrice(),
		"currency": s.currency,
	})
}

func prepayResponse(res *services.PrepayResult) gin.H {
	return gin.H{
		"transactionId": res.Transaction.ID,
		"intentId":      res.IntentID,
		"clientSecret":  res.ClientSecret,
		"amount":        res.Amount,
	}
}

func (s *Server) handlePrepaySubscription(c *gin.Context) {
	res, err := s.payments.PrepaySubscription(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prepayResponse(res))
}

type confirmSubscriptionRequest struct {
	Email         string   `json:"email" binding:"required"`
	IntentID      string   `json:"intentId" binding:"required"`
	Amount        *float64 `json:"amount" binding:"required"`
	TransactionID string   `json:"transactionId" binding:"required"`
}

func (s *Server) handleConfirmSubscription(c *gin.Context) {
	var req confirmSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	err := s.payments.ConfirmSubscription(c.Request.Context(), req.Email, req.IntentID, *req.Amount, req.TransactionID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscripción activada"})
}

type prepaySongRequest struct {
	Email  string   `json:"email" binding:"required"`
	Amount *float64 `json:"amount" binding:"required"`
}

func (s *Server) handlePrepaySong(c *gin.Context) {
	var req prepaySongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	res, err := s.payments.PrepaySong(c.Request.Context(), req.Email, *req.Amount)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prepayResponse(res))
}

type confirmSongRequest struct {
	Email         string   `json:"email" binding:"required"`
	IntentID      string   `json:"intentId" binding:"required"`
	Amount        *float64 `json:"amount" binding:"required"`
	TransactionID string   `json:"transactionId" binding:"required"`
	TrackURI      string   `json:"trackUri"`
}

func (s *Server) handleConfirmSong(c *gin.Context) {
	var req confirmSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	err := s.payments.ConfirmSong(c.Request.Context(), req.Email, req.IntentID, *req.Amount, req.TransactionID, req.TrackURI)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Canción confirmada"})
}
