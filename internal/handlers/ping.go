package handlers

import (
	"net/http"

	"github.com/go-chi/render"
)

// PingHandler обрабатывает GET запрос к /api/ping
func PingHandler(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "ok")
}
