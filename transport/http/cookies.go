package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/punkdirectory/punkauth/service"
)

// Cookie names for the two pieces of client-held state
const (
	NonceCookieName   = "siwe-nonce"
	SessionCookieName = "punk-auth"
)

const sessionCookieMaxAge = 24 * 60 * 60 // 24 hours in seconds

// setNonceCookie stores an issued nonce in a short-lived, server-only cookie
func (h *AuthHandlers) setNonceCookie(c *gin.Context, nonce string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(NonceCookieName, nonce, int(service.NonceTTL.Seconds()), "/", "", h.secureCookies, true)
}

// consumeNonce reads and deletes the nonce cookie, so every nonce is
// usable at most once. Returns "" when no nonce was issued.
func (h *AuthHandlers) consumeNonce(c *gin.Context) string {
	nonce, err := c.Cookie(NonceCookieName)
	if err != nil {
		return ""
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(NonceCookieName, "", -1, "/", "", h.secureCookies, true)
	return nonce
}

// setSessionCookie stores the session token
func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", "", h.secureCookies, true)
}

// clearSessionCookie deletes the session cookie
func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.secureCookies, true)
}
