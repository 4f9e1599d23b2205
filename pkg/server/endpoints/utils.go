package endpoints

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/acl"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func internalError(w http.ResponseWriter, err error) {
	log.Printf("Error: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// routeURL builds the encoded path of a named route, or "" when it cannot
// be built. Variable values are path-escaped.
func routeURL(router *mux.Router, name string, pairs ...string) string {
	route := router.Get(name)
	if route == nil {
		log.Printf("Error: route %s is not registered", name)
		return ""
	}
	// mux leaves path variables as given; keys may contain '/' or spaces
	escaped := make([]string, len(pairs))
	for i, p := range pairs {
		if i%2 == 1 {
			p = url.PathEscape(p)
		}
		escaped[i] = p
	}
	u, err := route.URL(escaped...)
	if err != nil {
		log.Printf("Error: building %s URL: %v", name, err)
		return ""
	}
	return u.Path
}

// userID returns the most specific principal of a request for audit records
func userID(r *http.Request) string {
	principals := acl.PrincipalsFrom(r.Context())
	for _, p := range principals {
		if strings.HasPrefix(p, "user:") {
			return p
		}
	}
	return acl.Everyone
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func formatID(id interface{}) string {
	return fmt.Sprint(id)
}
