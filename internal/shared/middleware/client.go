package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ClientCookie holds the per-browser id that theme preferences are keyed by.
const ClientCookie = "billheat_client"

const clientKey contextKey = "client"

const clientMaxAge = 365 * 24 * time.Hour

// ClientID makes sure every request carries a client id, issuing a new
// cookie when it is missing or malformed.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(ClientCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}

		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(clientMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), clientKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Client returns the id set by ClientID, or "" outside of it.
func Client(r *http.Request) string {
	id, _ := r.Context().Value(clientKey).(string)
	return id
}
