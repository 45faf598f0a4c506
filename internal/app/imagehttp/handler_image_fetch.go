package imagehttp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sir_venger/imgserve/internal/models"
	"github.com/sir_venger/imgserve/pkg/httperrors"
	"github.com/sir_venger/imgserve/pkg/imageproto"
)

// fetchImage обслуживает GET/HEAD-запросы, отдавая содержимое файла.
// Условные запросы и Range обрабатывает http.ServeContent.
func (a *Server) fetchImage(w http.ResponseWriter, r *http.Request) {
	name, err := imageName(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	img, err := a.store.Resolve(name)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	f, err := a.store.Open(img)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	defer f.Close()

	h := w.Header()
	h.Set("Content-Type", img.ContentType)
	h.Set("Cache-Control", imageproto.CacheControl)
	h.Set("ETag", etag(img))

	http.ServeContent(w, r, img.Name, img.ModTime, f)
}

// imageName достаёт имя файла из wildcard-параметра. Chi маршрутизирует по RawPath,
// если он есть, поэтому значение в этом случае ещё закодировано.
func imageName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return name, nil
	}

	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrBadPath, err)
	}

	return decoded, nil
}

// etag — слабый валидатор из размера и времени изменения.
func etag(img *models.Image) string {
	return fmt.Sprintf(`W/"%x-%x"`, img.Size, img.ModTime.UnixMilli())
}

// fail пишет ошибку клиенту; неожиданные ошибки логируются.
func (a *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httperrors.Status(err)
	if status >= http.StatusInternalServerError {
		a.log.Error("serve image failed",
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	httperrors.Write(w, err)
}
