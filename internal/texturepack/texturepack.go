// Package texturepack opens Minecraft-style resource packs, either unpacked
// directories or zip archives, and decodes the textures they contain.
package texturepack

import (
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"blockrender/pkg/blockmodel"

	"github.com/klauspost/compress/zip"
	"golang.org/x/image/draw"
)

// Pack is an opened resource pack. FS is rooted at the namespace directory
// (for example "assets/minecraft"), so it contains "blockstates/",
// "models/" and "textures/".
type Pack struct {
	FS     fs.FS
	Path   string
	closer io.Closer
}

// Open opens a directory or a .zip resource pack.
func Open(p string) (*Pack, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("texture pack: %w", err)
	}

	var (
		fsys   fs.FS
		closer io.Closer
	)
	if info.IsDir() {
		fsys = os.DirFS(p)
	} else {
		zr, err := zip.OpenReader(p)
		if err != nil {
			return nil, fmt.Errorf("texture pack %s: %w", p, err)
		}
		fsys, closer = zr, zr
	}

	root, err := namespaceRoot(fsys)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("texture pack %s: %w", p, err)
	}
	return &Pack{FS: root, Path: p, closer: closer}, nil
}

// FromFS wraps an already rooted file system, mostly for tests.
func FromFS(fsys fs.FS) *Pack {
	return &Pack{FS: fsys}
}

func (p *Pack) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func namespaceRoot(fsys fs.FS) (fs.FS, error) {
	if st, err := fs.Stat(fsys, "assets/minecraft"); err == nil && st.IsDir() {
		return fs.Sub(fsys, "assets/minecraft")
	}
	return fsys, nil
}

// LoadTexture decodes "textures/<name>.png" into an NRGBA image. Animated
// textures are stored as vertical strips of square frames; only the first
// frame is kept.
func (p *Pack) LoadTexture(name string) (*image.NRGBA, error) {
	name = strings.TrimSuffix(blockmodel.StripNamespace(name), ".png")
	file, err := p.FS.Open(path.Join("textures", name+".png"))
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}

	b := img.Bounds()
	if h := b.Dx(); b.Dy() > h && h > 0 {
		b.Max.Y = b.Min.Y + h
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, nil
}
