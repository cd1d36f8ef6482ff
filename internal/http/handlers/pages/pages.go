// Package pages реализует обработчик статических информационных страниц.
//
// Набор страниц закрыт и диспетчеризуется по явной таблице: неизвестное
// имя — 404, без рефлексии и динамической загрузки.
package pages

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/health-predictor/internal/http/response"
)

// page описывает содержимое одной информационной страницы.
type page struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// pageTable — закрытый набор информационных страниц.
var pageTable = map[string]page{
	"about": {
		Title: "About",
		Body:  "Health Predictor assesses diabetes, Parkinson's and pneumonia risk from lab values, voice recordings and chest X-rays using pre-trained models.",
	},
	"privacy": {
		Title: "Privacy",
		Body:  "Raw medical inputs are never stored. The prediction history keeps only a one-way digest of each input together with the result.",
	},
	"contact": {
		Title: "Contact",
		Body:  "Questions and feedback: support@health-predictor.local.",
	},
}

// Handler обрабатывает запросы информационных страниц.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Информационная страница
// @Description Возвращает одну из страниц: about, privacy, contact.
// @Tags Pages
// @Produce  json
// @Param name path string true "Имя страницы"
// @Success 200 {object} map[string]any "Содержимое страницы"
// @Failure 404 {object} response.ErrorResponse "Страница не найдена"
// @Router /pages/{name} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := pageTable[name]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("page not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(p))
}
