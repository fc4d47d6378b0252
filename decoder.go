// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// entityDecoder lazily decodes entity records by id and caches the
// results. Decoding is deferred until first access (building the
// byte-range index is cheap; fully tokenizing every entity up front
// on a large file is not), and concurrent callers requesting the
// same id collapse into a single decode via singleflight — the Go
// expression of the reader-parallel "losers discard their duplicate
// parse" rule the original enforces with a read-then-write RWMutex.
type entityDecoder struct {
	content []byte
	index   EntityIndex

	mu    sync.RWMutex
	cache map[EntityID]*DecodedEntity

	group singleflight.Group

	unitScaleMu sync.RWMutex
	unitScale   float64
	hasScale    bool
}

func newEntityDecoder(content []byte, index EntityIndex) *entityDecoder {
	return &entityDecoder{
		content: content,
		index:   index,
		cache:   make(map[EntityID]*DecodedEntity, len(index)),
	}
}

// decodeByID returns the decoded entity for id, decoding and caching
// it on first access.
func (d *entityDecoder) decodeByID(id EntityID) (*DecodedEntity, error) {
	d.mu.RLock()
	if e, ok := d.cache[id]; ok {
		d.mu.RUnlock()
		return e, nil
	}
	d.mu.RUnlock()

	key := strconv32(uint32(id))
	v, err, _ := d.group.Do(key, func() (any, error) {
		d.mu.RLock()
		if e, ok := d.cache[id]; ok {
			d.mu.RUnlock()
			return e, nil
		}
		d.mu.RUnlock()

		rng, ok := d.index[id]
		if !ok {
			return nil, newEntityNotFoundError(id)
		}
		entity, err := parseEntityAt(d.content, id, rng)
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		if existing, ok := d.cache[id]; ok {
			d.mu.Unlock()
			return existing, nil
		}
		d.cache[id] = entity
		d.mu.Unlock()
		return entity, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DecodedEntity), nil
}

func (d *entityDecoder) exists(id EntityID) bool {
	_, ok := d.index[id]
	return ok
}

func (d *entityDecoder) allIDs() []EntityID {
	ids := make([]EntityID, 0, len(d.index))
	for id := range d.index {
		ids = append(ids, id)
	}
	return ids
}

func (d *entityDecoder) entityCount() int { return len(d.index) }

func (d *entityDecoder) rawBytes(id EntityID) ([]byte, bool) {
	rng, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.content[rng.start:rng.end], true
}

func (d *entityDecoder) setUnitScale(scale float64) {
	d.unitScaleMu.Lock()
	d.unitScale, d.hasScale = scale, true
	d.unitScaleMu.Unlock()
}

func (d *entityDecoder) getUnitScale() (float64, bool) {
	d.unitScaleMu.RLock()
	defer d.unitScaleMu.RUnlock()
	return d.unitScale, d.hasScale
}

// preload decodes every id in ids concurrently, discarding any errors
// (a failed individual entity doesn't block preloading the rest);
// it's an optional warm-up, not on the critical path of correctness.
func (d *entityDecoder) preload(ids []EntityID) {
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id EntityID) {
			defer wg.Done()
			_, _ = d.decodeByID(id)
		}(id)
	}
	wg.Wait()
}

func (d *entityDecoder) clearCache() {
	d.mu.Lock()
	d.cache = make(map[EntityID]*DecodedEntity, len(d.index))
	d.mu.Unlock()
}

func (d *entityDecoder) cacheSize() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cache)
}

func strconv32(n uint32) string {
	// Small, allocation-light uint32 -> string used only as a
	// singleflight key; strconv.Itoa would box through int first.
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
