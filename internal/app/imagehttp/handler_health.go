package imagehttp

import (
	"encoding/json"
	"net/http"

	"github.com/sir_venger/imgserve/internal/models"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK bool `json:"ok"`
	models.Stats
}

// health возвращает агрегированную статистику по каталогу изображений.
func (a *Server) health(w http.ResponseWriter, r *http.Request) {
	st, err := a.store.Stats()
	if err != nil {
		a.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(healthStats{
		OK:    true,
		Stats: st,
	})
	if err != nil {
		a.log.Warn("write health", "error", err)
	}
}
