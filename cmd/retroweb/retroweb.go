// retroweb serves the sprite library over HTTP: per-sprite PNGs and GIFs,
// an index page with inline thumbnails, and optionally a live frame
// composed from a small demo scene.
package main

import (
	"bytes"
	"flag"
	"io"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-retro/datafiles"
	"badc0de.net/pkg/go-retro/library"
	"badc0de.net/pkg/go-retro/paths"
	"badc0de.net/pkg/go-retro/sprite"
	"badc0de.net/pkg/go-retro/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for retroweb")
	debugAddress  = flag.String("debug_listen_address", "", "optional listen address for /debug handlers")
	scale         = flag.Int("scale", 1, "codec pixel replication factor")
	demo          = flag.Bool("demo", true, "serve a demo scene frame at /frame")

	palettePath string
	libraryPath string
)

func setupFilePathFlags() {
	paths.SetupFilePathFlag("palette.json", "palette_path", &palettePath)
	paths.SetupFilePathFlag("library.json", "library_path", &libraryPath)
}

// datafileReader opens the flag-selected path, falling back to the
// embedded demo datafile when the flag stayed empty.
func datafileReader(path string, embedded []byte) (io.ReadCloser, error) {
	if path == "" {
		glog.Infof("using embedded demo datafile")
		return io.NopCloser(bytes.NewReader(embedded)), nil
	}
	return paths.NoFindOpen(path)
}

func loadIndex() (*sprite.Codec, *library.Index, error) {
	f, err := datafileReader(palettePath, datafiles.PaletteJSON)
	if err != nil {
		return nil, nil, err
	}
	pal, err := sprite.NewPaletteFromJSON(f)
	f.Close()
	if err != nil {
		return nil, nil, err
	}
	codec, err := sprite.NewCodec(sprite.Settings{Palette: pal, Scale: *scale})
	if err != nil {
		return nil, nil, err
	}

	f, err = datafileReader(libraryPath, datafiles.LibraryJSON)
	if err != nil {
		return nil, nil, err
	}
	desc, err := library.LoadDescription(f)
	f.Close()
	if err != nil {
		return nil, nil, err
	}
	index, err := library.NewIndex(library.Settings{Codec: codec, Description: desc})
	if err != nil {
		return nil, nil, err
	}
	return codec, index, nil
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()

	figure.NewFigure("go-retro", "", false).Print()
	glog.Infoln("starting retroweb services")

	codec, index, err := loadIndex()
	if err != nil {
		glog.Exitf("loading sprite library: %v", err)
	}

	h := web.NewHandler(codec, index)
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	if *demo {
		renderer, err := demoScene(codec, index)
		if err != nil {
			glog.Errorf("demo scene unavailable: %v", err)
		} else {
			h.RegisterFrameRoute(r, renderer)
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		glog.Infof("retroweb listening on %s", *listenAddress)
		return http.ListenAndServe(*listenAddress, handlers.CombinedLoggingHandler(os.Stderr, r))
	})
	if *debugAddress != "" {
		g.Go(func() error {
			// The net/trace import registers /debug/requests on the
			// default mux.
			glog.Infof("debug handlers listening on %s", *debugAddress)
			return http.ListenAndServe(*debugAddress, nil)
		})
	}
	glog.Fatal(g.Wait())
}
