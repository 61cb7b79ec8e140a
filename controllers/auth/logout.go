package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/Saipreetham0/ksp-project-sub001/middleware"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

// POST /v1/logout
//
// Revokes the token's jti when a revocation store is configured and clears
// the session cookie either way.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")); tokenStr != "" {
		if claims, err := utils.ValidateAccessToken(tokenStr); err == nil {
			jti, _ := claims["jti"].(string)
			ttl := time.Hour
			if exp, ok := claims["exp"].(float64); ok {
				if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
					ttl = until
				}
			}
			if err := utils.RevokeJTI(jti, ttl); err != nil {
				utils.Log.Warnw("token revocation failed", "error", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
