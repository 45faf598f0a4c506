package imagehttp

import (
	"html/template"
	"net/http"
)

var indexPage = template.Must(template.New("index").Parse(`
<h3>Image server</h3>
<p>Place images in <code>{{.Dir}}</code> and fetch them at <code>/image/sample_image.svg</code>.</p>
<h4>When consuming the image from an app or BFF, use the server's network address, not localhost.</h4>
<h5>Eg. - http://{{.Host}}/image/fasting.svg</h5>
`))

type indexData struct {
	Dir  string
	Host string
}

// index отдаёт информационную страницу с путём к каталогу изображений.
func (a *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexPage.Execute(w, indexData{
		Dir:  a.store.Dir(),
		Host: r.Host,
	})
	if err != nil {
		a.log.Error("render index", "error", err)
	}
}
