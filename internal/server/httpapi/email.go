package httpapi

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramolapp/gramola/internal/common"
)

type simpleMailRequest struct {
	To      string `json:"to" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// handleSendSimple sends a plain-text mail. The body is escaped and
// wrapped so the mailer's HTML channel renders it verbatim.
func (s *Server) handleSendSimple(c *gin.Context) {
	var req simpleMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	body := "<pre>" + html.EscapeString(req.Body) + "</pre>"
	if err := s.mailer.Send(c.Request.Context(), req.To, req.Subject, body); err != nil {
		s.abortWithError(c, fmt.Errorf("no se pudo enviar el correo: %w", common.ErrUpstream))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Correo enviado"})
}

type htmlMailRequest struct {
	To      string `json:"to" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	HTML    string `json:"html" binding:"required"`
}

func (s *Server) handleSendHTML(c *gin.Context) {
	var req htmlMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, fmt.Errorf("cuerpo de la petición no válido: %w", common.ErrValidation))
		return
	}

	if err := s.mailer.Send(c.Request.Context(), req.To, req.Subject, req.HTML); err != nil {
		s.abortWithError(c, fmt.Errorf("no se pudo enviar el correo: %w", common.ErrUpstream))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Correo enviado"})
}
