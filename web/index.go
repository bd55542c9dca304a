package web

import (
	"bytes"
	"html/template"
	"image/png"
	"net/http"

	"github.com/golang/glog"
	"github.com/vincent-petithory/dataurl"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>sprite library</title></head>
<body>
<h1>sprite library</h1>
<table>
{{range .}}
<tr>
  <td><a href="/sprite/{{.Name}}">{{.Name}}</a></td>
  <td>{{if .Thumb}}<img src="{{.Thumb}}" alt="{{.Name}}">{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

type indexEntry struct {
	Name  string
	Thumb template.URL
}

// indexHandler lists every top-level library entry with an inline
// thumbnail. Thumbnails are embedded as data URLs so the page is a single
// response.
func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	h.spriteLock.Lock()
	defer h.spriteLock.Unlock()

	var entries []indexEntry
	for _, name := range h.index.Names() {
		entry := indexEntry{Name: name}
		if img, err := h.spriteImage(name, nil); err == nil {
			buf := &bytes.Buffer{}
			if err := png.Encode(buf, img); err == nil {
				entry.Thumb = template.URL(dataurl.New(buf.Bytes(), "image/png").String())
			}
		} else {
			glog.Warningf("web: no thumbnail for %q: %v", name, err)
		}
		entries = append(entries, entry)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, entries); err != nil {
		glog.Errorf("error rendering index: %v", err)
	}
}
