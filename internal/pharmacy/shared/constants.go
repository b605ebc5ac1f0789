package shared

const (
	// DefaultPage is the first page of a rendered table.
	DefaultPage = 1
	// DefaultLimit is the rendered table page size.
	DefaultLimit = 20
	// MaxLimit caps the limit query parameter.
	MaxLimit = 200
	// DefaultListSize is how many records one backend list call asks for.
	DefaultListSize = 1000

	// TabAll selects every record.
	TabAll = "all"
	// SortNewest is the default order for every list.
	SortNewest = "newest"
	// SortOldest reverses SortNewest.
	SortOldest = "oldest"
)
