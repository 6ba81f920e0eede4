package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-society/auth"
	"github.com/diewo77/go-society/internal/apperr"
)

func currentUser(r *http.Request) uint {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation(map[string]string{"id": "invalid"})
	}
	return uint(id), nil
}

// queryUint returns 0 for an absent parameter.
func queryUint(r *http.Request, name string, v map[string]string) uint {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		v[name] = "invalid"
		return 0
	}
	return uint(n)
}

func queryInt(r *http.Request, name string, v map[string]string) *int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		v[name] = "invalid"
		return nil
	}
	return &n
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
