package ticker

import (
	"context"
	"fmt"
	"sync"

	"github.com/fadedpez/neonvegas/pkg/outcome"
)

// Capacity is how many entries the feed keeps
const Capacity = 5

var (
	Names   = []string{"CryptoKing", "Alice_X", "VegasPro", "LudoMaster", "User78xx", "LuckyDay"}
	Amounts = []int{500, 1200, 50, 2000, 350, 800}
)

// Feed is the decorative "recent winners" list. It is not backed by real
// results and never touches a wallet.
type Feed struct {
	src outcome.Source

	mu      sync.RWMutex
	entries []string
}

func NewFeed(src outcome.Source) *Feed {
	return &Feed{src: src}
}

// Tick prepends one random entry, dropping the oldest beyond Capacity. Its
// signature fits a scheduler task.
func (f *Feed) Tick(context.Context) error {
	entry := fmt.Sprintf("%s just won $%d", Names[f.src.Intn(len(Names))], Amounts[f.src.Intn(len(Amounts))])

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append([]string{entry}, f.entries...)
	if len(f.entries) > Capacity {
		f.entries = f.entries[:Capacity]
	}
	return nil
}

// Entries returns the feed, newest first
func (f *Feed) Entries() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]string(nil), f.entries...)
}
