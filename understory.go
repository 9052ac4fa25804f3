package understory

import (
	"github.com/understory-dev/understory/internal/resolve"
	"github.com/understory-dev/understory/internal/store"
)

// Public type aliases for internal types used in the Engine API. These are
// Go type aliases (=) — identical to the internal types at compile time.

type Store = store.Store
type Symbol = store.Symbol
type Range = store.Range
type Param = store.Param
type Metadata = store.Metadata
type FileRecord = store.FileRecord
type Location = resolve.Location

// ErrNotFound is the "no definition" answer from [Engine.Definition].
var ErrNotFound = resolve.ErrNotFound
