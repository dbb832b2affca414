package assets

import (
	"bytes"
	"context"
	"image"
	"log"

	"VoxelView/cliente/internal/async"
)

// ImageHandle é o resultado compartilhado de uma carga, pendente ou concluída.
type ImageHandle struct {
	Key string

	loop    *async.Loop
	done    bool
	img     image.Image
	err     error
	waiters []func(image.Image, error)
}

// Done informa se a carga terminou.
func (h *ImageHandle) Done() bool {
	return h.done
}

// Result retorna a imagem e o erro. Só é válido após Done.
func (h *ImageHandle) Result() (image.Image, error) {
	return h.img, h.err
}

// Then agenda fn para quando a carga terminar. fn sempre roda num Drain do
// loop, mesmo que a imagem já esteja pronta.
func (h *ImageHandle) Then(fn func(image.Image, error)) {
	if h.done {
		img, err := h.img, h.err
		h.loop.Post(func() { fn(img, err) })
		return
	}
	h.waiters = append(h.waiters, fn)
}

func (h *ImageHandle) resolve(img image.Image, err error) {
	h.done = true
	h.img, h.err = img, err
	waiters := h.waiters
	h.waiters = nil
	for _, fn := range waiters {
		fn(img, err)
	}
}

// TextureCache memoriza imagens decodificadas por chave. Duas cargas da mesma
// chave compartilham o mesmo handle; cargas que falharam são esquecidas para
// que a próxima tentativa busque de novo. Usado apenas pela thread principal.
type TextureCache struct {
	loop    *async.Loop
	loader  ImageLoader
	entries map[string]*ImageHandle
}

// NewTextureCache cria um cache que busca imagens com loader.
func NewTextureCache(loop *async.Loop, loader ImageLoader) *TextureCache {
	return &TextureCache{
		loop:    loop,
		loader:  loader,
		entries: make(map[string]*ImageHandle),
	}
}

// Load retorna o handle da imagem em url, iniciando a carga se necessário.
func (c *TextureCache) Load(url string) *ImageHandle {
	return c.LoadWith(url, func(ctx context.Context) (image.Image, error) {
		return c.loader.LoadImage(ctx, url)
	})
}

// LoadBytes decodifica data em segundo plano e memoriza o resultado em key.
func (c *TextureCache) LoadBytes(key string, data []byte) *ImageHandle {
	return c.LoadWith(key, func(ctx context.Context) (image.Image, error) {
		return DecodeImage(bytes.NewReader(data))
	})
}

// LoadWith é como Load mas com uma função de busca arbitrária.
func (c *TextureCache) LoadWith(key string, fetch func(ctx context.Context) (image.Image, error)) *ImageHandle {
	if h, ok := c.entries[key]; ok {
		return h
	}
	h := &ImageHandle{Key: key, loop: c.loop}
	c.entries[key] = h

	async.Run(c.loop, fetch, func(img image.Image, err error) {
		if err != nil {
			log.Printf("[Textures] Falha ao carregar %s: %v", key, err)
			if c.entries[key] == h {
				delete(c.entries, key)
			}
		}
		h.resolve(img, err)
	})
	return h
}

// Put insere uma imagem já decodificada (ex.: skin padrão embutida).
func (c *TextureCache) Put(key string, img image.Image) *ImageHandle {
	h := &ImageHandle{Key: key, loop: c.loop, done: true, img: img}
	c.entries[key] = h
	return h
}

// Forget remove a chave do cache. Cargas em andamento continuam e entregam
// o resultado a quem já estava esperando.
func (c *TextureCache) Forget(key string) {
	delete(c.entries, key)
}

// Len retorna o número de chaves memorizadas (pendentes ou prontas).
func (c *TextureCache) Len() int {
	return len(c.entries)
}
