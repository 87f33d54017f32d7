package parallel

import "sync"

// TilePool provides reuse of scratch tiles via sync.Pool.
//
// Tiles come back zeroed, so a painter can start accumulating straight away.
//
// Thread safety: TilePool is safe for concurrent use.
type TilePool struct {
	// pools holds separate sync.Pool instances for edge tile sizes.
	// Key format: (width << 16) | height
	pools sync.Map

	// fullTilePool is the dedicated pool for full-size tiles.
	fullTilePool sync.Pool
}

// NewTilePool creates a new tile pool.
func NewTilePool() *TilePool {
	p := &TilePool{}
	p.fullTilePool.New = func() any {
		return newTile(TileWidth, TileHeight)
	}
	return p
}

func newTile(width, height int) *Tile {
	return &Tile{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*4),
		Mask:   make([]byte, width*height),
	}
}

// Get retrieves a zeroed tile of the given dimensions.
// It returns nil for non-positive dimensions.
func (p *TilePool) Get(width, height int) *Tile {
	if width <= 0 || height <= 0 {
		return nil
	}

	var tile *Tile
	if width == TileWidth && height == TileHeight {
		tile = p.fullTilePool.Get().(*Tile)
	} else {
		tile = p.getOrCreatePool(poolKey(width, height), width, height).Get().(*Tile)
	}
	tile.Reset()
	tile.X = 0
	tile.Y = 0
	return tile
}

// Put returns a tile to the pool for reuse.
// If tile is nil, this is a no-op.
func (p *TilePool) Put(tile *Tile) {
	if tile == nil {
		return
	}

	if tile.Width == TileWidth && tile.Height == TileHeight {
		p.fullTilePool.Put(tile)
		return
	}

	if pool, ok := p.pools.Load(poolKey(tile.Width, tile.Height)); ok {
		pool.(*sync.Pool).Put(tile)
	}
	// If pool doesn't exist, let GC reclaim the tile
}

// poolKey creates a unique key for a tile size.
// Width and height are clamped to 16-bit values to prevent overflow.
func poolKey(width, height int) uint32 {
	w := min(width, 0xFFFF)
	h := min(height, 0xFFFF)
	return uint32(w)<<16 | uint32(h) //nolint:gosec // values are clamped above
}

// getOrCreatePool gets or creates a sync.Pool for the given dimensions.
func (p *TilePool) getOrCreatePool(key uint32, width, height int) *sync.Pool {
	if pool, ok := p.pools.Load(key); ok {
		return pool.(*sync.Pool)
	}

	newPool := &sync.Pool{
		New: func() any {
			return newTile(width, height)
		},
	}

	// Try to store; if another goroutine beat us, use theirs
	actual, _ := p.pools.LoadOrStore(key, newPool)
	return actual.(*sync.Pool)
}

// defaultPool is the package-level tile pool.
var defaultPool = NewTilePool()

// GetTile retrieves a tile from the default pool.
func GetTile(width, height int) *Tile {
	return defaultPool.Get(width, height)
}

// PutTile returns a tile to the default pool.
func PutTile(tile *Tile) {
	defaultPool.Put(tile)
}
