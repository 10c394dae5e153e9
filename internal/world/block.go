package world

import (
	"sort"
	"strconv"
	"sync"
)

// BlockType identifies the content of a tetrahedral element. Zero is air.
type BlockType uint16

const (
	BlockTypeAir BlockType = iota
	BlockTypeStone
	BlockTypeDirt
	BlockTypeGrass
	BlockTypeWater
	BlockTypeSand
	BlockTypeOre
)

// BlockDefinition holds the physical properties of a block type.
type BlockDefinition struct {
	ID            BlockType
	Name          string
	IsSolid       bool
	IsTransparent bool
}

// Registry maps block ids to their definitions. Lookups of unregistered
// ids fall back to the air definition.
type Registry struct {
	mu     sync.RWMutex
	blocks map[BlockType]BlockDefinition
	names  map[string]BlockType
}

// NewRegistry returns a registry preloaded with the built-in blocks.
func NewRegistry() *Registry {
	r := &Registry{
		blocks: make(map[BlockType]BlockDefinition),
		names:  make(map[string]BlockType),
	}
	for _, def := range defaultBlocks {
		r.Register(def)
	}
	return r
}

var defaultBlocks = []BlockDefinition{
	{ID: BlockTypeAir, Name: "air", IsSolid: false, IsTransparent: true},
	{ID: BlockTypeStone, Name: "stone", IsSolid: true},
	{ID: BlockTypeDirt, Name: "dirt", IsSolid: true},
	{ID: BlockTypeGrass, Name: "grass", IsSolid: true},
	{ID: BlockTypeWater, Name: "water", IsSolid: false, IsTransparent: true},
	{ID: BlockTypeSand, Name: "sand", IsSolid: true},
	{ID: BlockTypeOre, Name: "ore", IsSolid: true},
}

// Register adds or replaces a definition.
func (r *Registry) Register(def BlockDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.blocks[def.ID]; ok && old.Name != def.Name {
		delete(r.names, old.Name)
	}
	r.blocks[def.ID] = def
	r.names[def.Name] = def.ID
}

// Get returns the definition for id, or the air definition if id is unknown.
func (r *Registry) Get(id BlockType) BlockDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.blocks[id]; ok {
		return def
	}
	return r.blocks[BlockTypeAir]
}

// Has reports whether id is registered.
func (r *Registry) Has(id BlockType) bool {
	r.mu.RLock()
	_, ok := r.blocks[id]
	r.mu.RUnlock()
	return ok
}

// Lookup resolves a block by name.
func (r *Registry) Lookup(name string) (BlockType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	return id, ok
}

// IDs returns every registered id in ascending order.
func (r *Registry) IDs() []BlockType {
	r.mu.RLock()
	ids := make([]BlockType, 0, len(r.blocks))
	for id := range r.blocks {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (b BlockType) String() string {
	for _, def := range defaultBlocks {
		if def.ID == b {
			return def.Name
		}
	}
	return "block#" + strconv.Itoa(int(b))
}
