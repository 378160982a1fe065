package dictionary

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// prefixIndex maps word prefixes to dictionary entries through a
// patricia trie. Mutations never patch the trie in place: they mark it
// stale and the next lookup builds a fresh trie from a snapshot and
// swaps it in. rebuildMu serializes rebuilds so concurrent readers
// block only while one is actually running.
type prefixIndex struct {
	rebuildMu sync.Mutex

	mu    sync.RWMutex
	trie  *patricia.Trie
	stale bool
}

func (ix *prefixIndex) invalidate() {
	ix.mu.Lock()
	ix.stale = true
	ix.mu.Unlock()
}

func (ix *prefixIndex) lookup(key string, snapshot func() []Entry) []Entry {
	ix.ensure(snapshot)

	ix.mu.RLock()
	trie := ix.trie
	ix.mu.RUnlock()
	if trie == nil {
		return nil
	}

	var out []Entry
	err := trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		entries, ok := item.([]Entry)
		if !ok {
			log.Errorf("Unknown index item type %T for prefix %s", item, p)
			return nil
		}
		out = append(out, entries...)
		return nil
	})
	if err != nil {
		log.Errorf("Visiting index subtree: %v", err)
		return nil
	}
	return out
}

// ensure rebuilds the trie if it is stale or was never built. Only one
// rebuild runs at a time; a second caller arriving mid-rebuild waits
// here, then sees a fresh trie and returns immediately.
func (ix *prefixIndex) ensure(snapshot func() []Entry) {
	ix.rebuildMu.Lock()
	defer ix.rebuildMu.Unlock()

	ix.mu.RLock()
	ready := ix.trie != nil && !ix.stale
	ix.mu.RUnlock()
	if ready {
		return
	}

	entries := snapshot()
	trie := patricia.NewTrie()
	for _, e := range entries {
		key := patricia.Prefix(e.Word)
		if item := trie.Get(key); item != nil {
			trie.Set(key, append(item.([]Entry), e))
		} else {
			trie.Insert(key, []Entry{e})
		}
	}
	log.Debugf("Prefix index rebuilt: %d entries", len(entries))

	ix.mu.Lock()
	ix.trie = trie
	ix.stale = false
	ix.mu.Unlock()
}
