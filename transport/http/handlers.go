package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/punkdirectory/punkauth/core"
	"github.com/punkdirectory/punkauth/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService   *service.AuthService
	secureCookies bool
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// Nonce issues a fresh sign-in nonce and binds it to the browser via a
// short-lived cookie
func (h *AuthHandlers) Nonce(c *gin.Context) {
	nonce, err := h.authService.IssueNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create nonce"})
		return
	}

	h.setNonceCookie(c, nonce)
	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// Login handles the login request
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing message or signature"})
		return
	}

	// The nonce is destroyed here no matter how verification ends, so a
	// rejected attempt cannot probe the same nonce again.
	issuedNonce := h.consumeNonce(c)

	session, token, err := h.authService.Login(c.Request.Context(), req.Message, req.Signature, issuedNonce)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMsg := "Authentication failed"

		switch {
		case errors.Is(err, core.ErrMissingInput):
			statusCode = http.StatusBadRequest
			errorMsg = "Missing message or signature"
		case errors.Is(err, core.ErrMalformedMessage):
			statusCode = http.StatusBadRequest
			errorMsg = "Malformed sign-in message"
		case errors.Is(err, core.ErrInvalidNonce):
			statusCode = http.StatusUnauthorized
			errorMsg = "Invalid or expired nonce"
		case errors.Is(err, core.ErrInvalidSignature):
			statusCode = http.StatusUnauthorized
			errorMsg = "Invalid signature"
		case errors.Is(err, core.ErrNoQualifyingPunk):
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "No CryptoPunks found",
				"message": "This app is exclusively for CryptoPunk owners. Connect a wallet that owns a CryptoPunk or has one delegated to it.",
			})
			return
		}

		c.JSON(statusCode, gin.H{"error": errorMsg})
		return
	}

	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"wallet":         session.Wallet,
		"ownedPunks":     session.Ownership.OwnedPunks,
		"delegatedPunks": session.Ownership.DelegatedPunks,
	})
}

// Logout deletes the session cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil {
		h.authService.Logout(c.Request.Context(), token)
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the session state held in the cookie
func (h *AuthHandlers) Me(c *gin.Context) {
	session, ok := sessionFromRequest(c, h.authService)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated":  true,
		"wallet":         session.Wallet,
		"ownedPunks":     session.Ownership.OwnedPunks,
		"delegatedPunks": session.Ownership.DelegatedPunks,
	})
}

// RefreshMe re-resolves punk holdings live from the external sources,
// still gated by a valid existing session
func (h *AuthHandlers) RefreshMe(c *gin.Context) {
	session, ok := sessionFromRequest(c, h.authService)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}

	ownership := h.authService.RefreshOwnership(c.Request.Context(), session)

	c.JSON(http.StatusOK, gin.H{
		"authenticated":  true,
		"wallet":         session.Wallet,
		"ownedPunks":     ownership.OwnedPunks,
		"delegatedPunks": ownership.DelegatedPunks,
	})
}

// AuthorizePunk checks whether the session can act on a specific punk
func (h *AuthHandlers) AuthorizePunk(c *gin.Context) {
	session, exists := SessionFromContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not found in context"})
		return
	}

	punkID, err := strconv.Atoi(c.Param("id"))
	if err != nil || punkID < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid punk id"})
		return
	}

	if err := h.authService.AuthorizePunk(c.Request.Context(), session, punkID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this punk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"punkId":     punkID,
		"wallet":     session.Wallet,
	})
}
