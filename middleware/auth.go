package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

// AuthMiddleware validates the Bearer token and injects the user id into the
// request context. Everything behind it can rely on utils.GetUserID.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

		claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Session expired, please login again"})
				return
			}
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid token"})
			return
		}

		userID, ok := utils.UserIDFromClaims(claims)
		if !ok || userID == 0 {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
