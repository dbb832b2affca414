package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ImageLoader busca e decodifica uma imagem. Pode bloquear; é sempre chamado
// fora da thread do frame loop.
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) (image.Image, error)
}

// HTTPLoader carrega imagens de URLs http(s), data URLs e arquivos locais.
type HTTPLoader struct {
	Client  *http.Client
	BaseDir string // Raiz para caminhos relativos
}

// NewHTTPLoader cria um loader com timeout padrão.
func NewHTTPLoader(baseDir string) *HTTPLoader {
	return &HTTPLoader{
		Client:  &http.Client{Timeout: 15 * time.Second},
		BaseDir: baseDir,
	}
}

// LoadImage implementa ImageLoader.
func (l *HTTPLoader) LoadImage(ctx context.Context, url string) (image.Image, error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return l.fetch(ctx, url)
	case strings.HasPrefix(url, "data:"):
		return decodeDataURL(url)
	default:
		path := strings.TrimPrefix(url, "file://")
		if l.BaseDir != "" && !strings.HasPrefix(path, "/") {
			path = l.BaseDir + "/" + path
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("falha ao abrir imagem %s: %w", path, err)
		}
		defer f.Close()
		return DecodeImage(f)
	}
}

func (l *HTTPLoader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("falha ao buscar %s: status %d", url, resp.StatusCode)
	}
	return DecodeImage(resp.Body)
}

// DecodeImage decodifica PNG ou JPEG.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("falha ao decodificar imagem: %w", err)
	}
	return img, nil
}

func decodeDataURL(url string) (image.Image, error) {
	comma := strings.IndexByte(url, ',')
	if comma < 0 || !strings.Contains(url[:comma], ";base64") {
		return nil, fmt.Errorf("data URL inválida")
	}
	data, err := base64.StdEncoding.DecodeString(url[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("data URL inválida: %w", err)
	}
	return DecodeImage(bytes.NewReader(data))
}
