package engine

import (
	"sync"

	"github.com/sheikhrachel/go-life/model"
)

// countPool recycles the neighbor-count maps built by Step
type countPool struct {
	pool sync.Pool
}

func newCountPool() *countPool {
	return &countPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make(map[model.Cell]int)
			},
		},
	}
}

// Get retrieves an empty count map from the pool
func (p *countPool) Get() map[model.Cell]int {
	return p.pool.Get().(map[model.Cell]int)
}

// Put returns a count map to the pool, clearing its state
func (p *countPool) Put(counts map[model.Cell]int) {
	clear(counts)
	p.pool.Put(counts)
}

var counts = newCountPool()
