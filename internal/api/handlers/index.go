package handlers

import "net/http"

// IndexHandler serves the pre-rendered single-page client.
type IndexHandler struct {
	Page []byte
}

func (h *IndexHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if len(h.Page) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(h.Page)
}
