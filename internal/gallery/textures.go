package gallery

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// TextureCache resolves item urls to GL textures. Fetch and decode run off
// the frame loop; upload happens on it, because texture creation needs the
// GL context thread. Until an item's texture lands it renders with a neutral
// placeholder, and a failed fetch keeps the placeholder for good.
type TextureCache struct {
	client *http.Client
	log    *slog.Logger

	textures    map[string]uint32
	pending     map[string]bool
	decoded     chan decodedImage
	placeholder uint32
}

type decodedImage struct {
	url string
	img *image.RGBA // nil marks a failed fetch
}

func NewTextureCache(log *slog.Logger) *TextureCache {
	c := &TextureCache{
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
		textures: map[string]uint32{},
		pending:  map[string]bool{},
		decoded:  make(chan decodedImage, 16),
	}
	c.placeholder = uploadTexture(placeholderImage())
	return c
}

// Get returns the texture for url, kicking off a fetch on first sight.
func (c *TextureCache) Get(url string) uint32 {
	if url == "" {
		return c.placeholder
	}
	if tex, ok := c.textures[url]; ok {
		return tex
	}
	if !c.pending[url] {
		c.pending[url] = true
		go c.fetchAndDecode(url)
	}
	return c.placeholder
}

// ProcessPending uploads any freshly decoded images. Call once per frame on
// the GL thread.
func (c *TextureCache) ProcessPending() {
	for {
		select {
		case d := <-c.decoded:
			if d.img == nil {
				c.textures[d.url] = c.placeholder
			} else {
				c.textures[d.url] = uploadTexture(d.img)
			}
			delete(c.pending, d.url)
		default:
			return
		}
	}
}

// Destroy releases every texture.
func (c *TextureCache) Destroy() {
	for _, tex := range c.textures {
		if tex != 0 && tex != c.placeholder {
			gl.DeleteTextures(1, &tex)
		}
	}
	if c.placeholder != 0 {
		gl.DeleteTextures(1, &c.placeholder)
	}
}

func (c *TextureCache) fetchAndDecode(url string) {
	img, err := c.fetchImage(url)
	if err != nil {
		c.log.Debug("texture fetch failed", "url", url, "error", err)
		c.decoded <- decodedImage{url: url}
		return
	}
	c.decoded <- decodedImage{url: url, img: img}
}

func (c *TextureCache) fetchImage(url string) (*image.RGBA, error) {
	var data []byte
	var err error
	if strings.HasPrefix(url, "file://") {
		data, err = os.ReadFile(strings.TrimPrefix(url, "file://"))
	} else {
		var resp *http.Response
		resp, err = c.client.Get(url)
		if err == nil {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("unexpected status %s", resp.Status)
			}
			data, err = io.ReadAll(resp.Body)
		}
	}
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return rgba, nil
}

// placeholderImage is a small neutral gray card.
func placeholderImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0x30
		img.Pix[i+1] = 0x30
		img.Pix[i+2] = 0x36
		img.Pix[i+3] = 0xff
	}
	return img
}

func uploadTexture(img *image.RGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	w := int32(img.Bounds().Dx())
	h := int32(img.Bounds().Dy())
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&img.Pix[0]))
	return tex
}
