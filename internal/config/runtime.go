package config

import "sync"

const (
	minGenerationRadius = 0
	maxGenerationRadius = 16
)

// RuntimeSettings holds values that may change while the engine runs
type RuntimeSettings struct {
	mu               sync.RWMutex
	generationRadius int // in chunks
	evictRadius      int
}

var globalRuntimeSettings = &RuntimeSettings{
	generationRadius: 2, // default value
	evictRadius:      4,
}

// Apply copies the loaded config into the runtime settings
func Apply(c Config) {
	SetGenerationRadius(c.World.GenerationRadius)
	SetEvictRadius(c.World.EvictRadius)
}

// GetGenerationRadius returns the current generation radius in chunks
func GetGenerationRadius() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.generationRadius
}

// SetGenerationRadius sets the generation radius in chunks. The evict
// radius is pushed out so it always stays beyond the generated area.
func SetGenerationRadius(radius int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Clamp to reasonable values
	if radius < minGenerationRadius {
		radius = minGenerationRadius
	}
	if radius > maxGenerationRadius {
		radius = maxGenerationRadius
	}

	globalRuntimeSettings.generationRadius = radius
	if globalRuntimeSettings.evictRadius <= radius {
		globalRuntimeSettings.evictRadius = radius + 1
	}
}

// GetEvictRadius returns radius for chunk eviction (larger than generation radius)
func GetEvictRadius() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.evictRadius
}

// SetEvictRadius sets the eviction radius, never at or inside the
// generation radius.
func SetEvictRadius(radius int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	if radius <= globalRuntimeSettings.generationRadius {
		radius = globalRuntimeSettings.generationRadius + 1
	}
	globalRuntimeSettings.evictRadius = radius
}
