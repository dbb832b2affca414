// Package client conecta o VoxelView à ponte do protocolo do jogo e entrega
// as mensagens recebidas como eventos do viewer.
package client

import (
	"context"
	"errors"
	"log"
	"time"

	"VoxelView/cliente/internal/viewer"
	"VoxelView/shared/proto/vvnet"

	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
)

// ErrNotConnected é retornado por Send sem conexão ativa.
var ErrNotConnected = errors.New("client: não conectado")

// Options controla a conexão.
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	QueueSize  int // Eventos aguardando o frame loop
}

// DefaultOptions retorna os valores usados pelo executável.
func DefaultOptions() Options {
	return Options{MaxRetries: 10, RetryDelay: 2 * time.Second, QueueSize: 4096}
}

// NetworkClient lê envelopes do WebSocket numa goroutine e os entrega
// decodificados pelo canal Events.
type NetworkClient struct {
	url  string
	opts Options

	mu        deadlock.RWMutex
	conn      *websocket.Conn
	connected bool

	events chan viewer.Event
	done   chan struct{}

	// Chamado quando a conexão cai (goroutine de leitura).
	OnDisconnect func(err error)
}

// NewNetworkClient cria um cliente sem conectar.
func NewNetworkClient(url string, opts Options) *NetworkClient {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultOptions().QueueSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &NetworkClient{
		url:    url,
		opts:   opts,
		events: make(chan viewer.Event, opts.QueueSize),
		done:   make(chan struct{}),
	}
}

// Events é o canal de eventos decodificados, em ordem de chegada.
func (c *NetworkClient) Events() <-chan viewer.Event {
	return c.events
}

// Connect abre a conexão com novas tentativas, anuncia LISTENING e inicia a
// leitura.
func (c *NetworkClient) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var conn *websocket.Conn
	var err error
	for i := 0; i < c.opts.MaxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, c.opts.MaxRetries, c.url)
		conn, _, err = dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Ponte ainda não está pronta: %v. Aguardando...", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.opts.RetryDelay):
		}
	}
	if err != nil {
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", c.opts.MaxRetries, err)
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.Send(vvnet.MsgListening, nil); err != nil {
		return err
	}
	go c.readLoop(conn)
	return nil
}

// IsConnected informa se a conexão está ativa.
func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Send envia uma mensagem dentro de um envelope.
func (c *NetworkClient) Send(t vvnet.MsgType, m vvnet.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, vvnet.Wrap(t, m)); err != nil {
		log.Printf("[Network] Erro ao enviar %v: %v", t, err)
		c.connected = false
		return err
	}
	return nil
}

// Close encerra a conexão e para a leitura.
func (c *NetworkClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.connected = false
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *NetworkClient) readLoop(conn *websocket.Conn) {
	var lost error
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Network] PANIC na leitura: %v", r)
		}
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		conn.Close()
		if c.OnDisconnect != nil {
			c.OnDisconnect(lost)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			lost = err
			return
		}
		ev, err := c.decode(data)
		if err != nil {
			log.Printf("[Network] Erro ao decodificar mensagem: %v", err)
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *NetworkClient) decode(data []byte) (viewer.Event, error) {
	var env vvnet.Envelope
	if err := env.Unmarshal(data); err != nil {
		return nil, err
	}
	return Decode(&env)
}
