package services

import (
	"context"
	"sync/atomic"
)

/**
 * Gate admits one mutating operation at a time.
 * Acquire is not reentrant; nested work runs while the caller already holds it.
 */
type Gate struct {
	slot    chan struct{}
	holders atomic.Int32
}

func NewGate() *Gate {
	return &Gate{slot: make(chan struct{}, 1)}
}

/**
 * Wait for the gate
 * @param {context.Context} ctx - Abandons the wait when done
 * @returns {error} ctx.Err() if the context ends first
 */
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slot <- struct{}{}:
		g.holders.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gate) Release() {
	g.holders.Add(-1)
	<-g.slot
}

// Holders 当前持有者数量（0或1）
func (g *Gate) Holders() int {
	return int(g.holders.Load())
}
