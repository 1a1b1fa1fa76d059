// Package endpoint holds the single active data-plane address shared by
// the control handler and the sine transmitter.
package endpoint

import (
	"net"
	"sync"
)

// Cell is a mutex guarded optional UDP address. At most one endpoint is
// active at a time: a successful CONNECT replaces the previous value
// (last-writer-wins) and DISCONNECT clears it.
type Cell struct {
	mu   sync.Mutex
	addr *net.UDPAddr
}

// NewCell returns an empty cell.
func NewCell() *Cell {
	return &Cell{}
}

// Set replaces the active endpoint with addr.
func (c *Cell) Set(addr *net.UDPAddr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addr = addr
}

// Clear empties the cell, stopping transmission.
func (c *Cell) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addr = nil
}

// Get returns the active endpoint, or ok=false if no client is connected.
func (c *Cell) Get() (*net.UDPAddr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.addr == nil {
		return nil, false
	}
	return c.addr, true
}
