// Package client speaks the cirulla line protocol from the player's side:
// a TCP connection, a reader pump and a terminal frontend.
package client

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cirulla-game/cirulla/internal/protocol"
)

const writeWait = 10 * time.Second

// Client is a connection to a cirulla server. Responses are pumped into a
// channel so a frontend can consume them as messages.
type Client struct {
	addr      string
	conn      net.Conn
	logger    *log.Logger
	responses chan protocol.Response
	closeOnce sync.Once
}

// NewClient creates a client for the given server address.
func NewClient(addr string, logger *log.Logger) *Client {
	return &Client{
		addr:      addr,
		logger:    logger.WithPrefix("client"),
		responses: make(chan protocol.Response, 256),
	}
}

// Connect dials the server and starts the reader pump.
func (c *Client) Connect() error {
	c.logger.Info("Connecting", "addr", c.addr)
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	go c.readPump()
	return nil
}

// Responses exposes the inbound stream. The channel closes when the server
// hangs up.
func (c *Client) Responses() <-chan protocol.Response {
	return c.responses
}

// Send writes one command to the server.
func (c *Client) Send(cmd protocol.Command) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.conn, "%s\n", cmd.Encode())
	return err
}

// Disconnect closes the connection.
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.logger.Info("Disconnected")
	})
	return nil
}

func (c *Client) readPump() {
	defer close(c.responses)
	br := bufio.NewReader(c.conn)
	for {
		r, err := protocol.ReadResponse(br)
		if err != nil {
			c.logger.Debug("Reader stopped", "error", err)
			return
		}
		c.responses <- r
	}
}
