package httpapi

import (
	"net/http"
	"strconv"

	"github.com/raisehub/admin-manager/internal/entity"
)

func listOptions(r *http.Request) entity.ListOptions {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return entity.ListOptions{Limit: limit, Offset: offset}
}

// languageToken reads the optional language selector; the services resolve
// it per request.
func languageToken(r *http.Request) string {
	return r.URL.Query().Get("language")
}

func boolFilter(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

type bulkStatusRequest struct {
	PublicIds []string `json:"publicIds"`
	IsActive  bool     `json:"isActive"`
}

func (b *bulkStatusRequest) Bind(*http.Request) error { return nil }

type bulkDeleteRequest struct {
	PublicIds []string `json:"publicIds"`
}

func (b *bulkDeleteRequest) Bind(*http.Request) error { return nil }
