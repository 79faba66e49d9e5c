// X-Admin-Key guard for configuration writes.
package middleware

import (
	"encoding/json"
	"net/http"

	pkgauth "github.com/matiasleandrokruk/vocable/pkg/auth"
)

// adminKeyHeader carries the caregiver admin key on guarded routes.
const adminKeyHeader = "X-Admin-Key"

// AdminMiddleware gates routes behind the caregiver admin key.
// The key never travels in a body or query string; callers present it in the
// X-Admin-Key header and it is compared against the bcrypt hash from
// ADMIN_KEY_HASH. With no hash configured the guarded routes are disabled
// outright (503) rather than left open.
// Expected order in router: AuthMiddleware -> AdminMiddleware -> handlers.
func AdminMiddleware(adminKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKeyHash == "" {
				writeAdminError(w, http.StatusServiceUnavailable, "admin operations are not configured")
				return
			}

			key := r.Header.Get(adminKeyHeader)
			if key == "" || !pkgauth.VerifyKey(adminKeyHash, key) {
				writeAdminError(w, http.StatusUnauthorized, "missing or invalid admin key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAdminError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
