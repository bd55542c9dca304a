// retroview prints a library sprite on the terminal, or writes it out as an
// animated GIF cycling its flip variants.
package main

import (
	"bytes"
	"flag"
	"image"
	"io"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/bradfitz/iter"
	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-retro/datafiles"
	"badc0de.net/pkg/go-retro/imageprint"
	"badc0de.net/pkg/go-retro/library"
	"badc0de.net/pkg/go-retro/paths"
	"badc0de.net/pkg/go-retro/render"
	"badc0de.net/pkg/go-retro/sprite"
)

var (
	key    = flag.String("key", "", "library key of the sprite to print")
	width  = flag.Int("w", 0, "target width in pixels (0 = natural)")
	height = flag.Int("h", 0, "target height in pixels (0 = natural)")
	zoom   = flag.Int("zoom", 1, "integer magnification applied before printing")
	mode   = flag.String("mode", "auto", "terminal output mode: auto, 256, truecolor, mono, graphics")
	blanks = flag.Bool("blanks", true, "whether to use colored blanks instead of some bad ascii art")
	list   = flag.Bool("list", false, "list library keys and exit")

	gifPath   = flag.String("gif", "", "write an animated gif to this path instead of printing")
	gifCycles = flag.Int("gif_cycles", 1, "how many times the gif repeats the flip cycle")

	scale = flag.Int("scale", 1, "codec pixel replication factor")

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

func printMode() imageprint.Mode {
	switch *mode {
	case "256":
		return imageprint.Mode256
	case "truecolor":
		return imageprint.ModeTrueColor
	case "mono":
		return imageprint.ModeMono
	case "graphics":
		return imageprint.ModeGraphics
	}
	return imageprint.ModeAuto
}

func writeGIF(codec *sprite.Codec, index *library.Index) error {
	var frames []image.Image
	for range iter.N(*gifCycles) {
		for _, variant := range []string{"", "flipped", "flip-vert", "flipped flip-vert"} {
			frameKey := strings.TrimSpace(*key + " " + variant)
			img, err := render.Snapshot(codec, index, frameKey, *width, *height)
			if err != nil {
				return err
			}
			frames = append(frames, img)
		}
	}
	f, err := os.Create(*gifPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return imageprint.WriteAnimation(f, frames, 50)
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()

	codec, index, err := loadIndex()
	if err != nil {
		glog.Exitf("loading sprite library: %v", err)
	}

	if *list {
		for _, name := range index.Names() {
			os.Stdout.WriteString(name + "\n")
		}
		return
	}

	if *key == "" {
		glog.Exitf("pass -key (or -list to enumerate)")
	}

	if *gifPath != "" {
		if err := writeGIF(codec, index); err != nil {
			glog.Exitf("writing gif: %v", err)
		}
		return
	}

	img, err := render.Snapshot(codec, index, *key, *width, *height)
	if err != nil {
		glog.Exitf("rendering %q: %v", *key, err)
	}

	var out image.Image = img
	if *zoom > 1 {
		b := img.Bounds()
		out = resize.Resize(uint(b.Dx()**zoom), uint(b.Dy()**zoom), img, resize.NearestNeighbor)
	}
	imageprint.Print(out, printMode(), *blanks)
}
