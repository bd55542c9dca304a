// Package web serves library sprites and the live frame over HTTP, for
// debugging and for embedding previews in tooling.
package web

import (
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-retro/imageprint"
	"badc0de.net/pkg/go-retro/library"
	"badc0de.net/pkg/go-retro/render"
	"badc0de.net/pkg/go-retro/sprite"
)

type Handler struct {
	spriteLock sync.Mutex
	frameLock  sync.Mutex

	codec    *sprite.Codec
	index    *library.Index
	renderer *render.Renderer
}

// NewHandler constructs a web handler for the passed codec and library
// index.
func NewHandler(codec *sprite.Codec, index *library.Index) *Handler {
	return &Handler{
		codec: codec,
		index: index,
	}
}

// keyFromRequest turns the route variable into a lookup key. Plus signs
// separate class tokens in the URL.
func keyFromRequest(r *http.Request) string {
	return strings.ReplaceAll(mux.Vars(r)["key"], "+", " ")
}

func (h *Handler) spriteImage(key string, query map[string][]string) (image.Image, error) {
	var w, ht int
	if len(query["w"]) > 0 {
		w, _ = strconv.Atoi(query["w"][0])
	}
	if len(query["h"]) > 0 {
		ht, _ = strconv.Atoi(query["h"][0])
	}
	if w < 0 || ht < 0 || w > 2048 || ht > 2048 {
		return nil, fmt.Errorf("web: bad dimensions %dx%d for %q", w, ht, key)
	}
	img, err := render.Snapshot(h.codec, h.index, key, w, ht)
	if err != nil {
		return nil, err
	}
	if len(query["scale"]) > 0 {
		factor, _ := strconv.Atoi(query["scale"][0])
		if factor > 1 && factor <= 16 {
			b := img.Bounds()
			return resize.Resize(uint(b.Dx()*factor), uint(b.Dy()*factor), img, resize.NearestNeighbor), nil
		}
	}
	return img, nil
}

func (h *Handler) spriteHandler(w http.ResponseWriter, r *http.Request) {
	h.spriteLock.Lock()
	defer h.spriteLock.Unlock()

	key := keyFromRequest(r)

	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"sprite:%d:%s:%s:%s"`, generation, key, r.URL.RawQuery, mime)
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	img, err := h.spriteImage(key, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		glog.Errorf("error rendering sprite %q: %v", key, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

// spriteGIFHandler animates a sprite by cycling its flip variants.
func (h *Handler) spriteGIFHandler(w http.ResponseWriter, r *http.Request) {
	h.spriteLock.Lock()
	defer h.spriteLock.Unlock()

	key := keyFromRequest(r)

	generation := 1 // bump if the way we generate it changes
	mime := "image/gif"
	etag := fmt.Sprintf(`W/"spritegif:%d:%s:%s:%s"`, generation, key, r.URL.RawQuery, mime)
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var frames []image.Image
	for _, variant := range []string{"", "flipped", "flip-vert", "flipped flip-vert"} {
		frameKey := strings.TrimSpace(key + " " + variant)
		img, err := h.spriteImage(frameKey, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			glog.Errorf("error rendering gif frame %q: %v", frameKey, err)
			return
		}
		frames = append(frames, img)
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	if err := imageprint.WriteAnimation(w, frames, 50); err != nil {
		glog.Errorf("error encoding gif for %q: %v", key, err)
	}
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	h.frameLock.Lock()
	defer h.frameLock.Unlock()

	if h.renderer == nil {
		http.Error(w, "no live renderer attached", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	png.Encode(w, h.renderer.Frame())
}

// RegisterRoutes attaches the sprite routes to the passed router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/sprite/{key}.gif", h.spriteGIFHandler)
	r.HandleFunc("/sprite/{key}", h.spriteHandler)
}

// RegisterFrameRoute attaches the live frame routes: the composed frame
// itself and, when the renderer runs in quadrant mode, the grid debug view.
func (h *Handler) RegisterFrameRoute(r *mux.Router, renderer *render.Renderer) {
	h.renderer = renderer
	r.HandleFunc("/frame", h.frameHandler)
	r.HandleFunc("/quadrants", h.quadrantsHandler)
}
