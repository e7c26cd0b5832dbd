package markup

import "runtime"

// DefaultChunkLines is the default size in lines of chunks parsed in
// parallel.
const DefaultChunkLines = 4096

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

// parsectx holds general data for parsing.
type parsectx struct {
	// name is the document name used in errors.
	name string
	// chunk is the minimum number of lines per chunk. Documents with fewer
	// lines are parsed sequentially. Zero disables chunking.
	chunk int
	// workers is the maximum number of chunks parsed at once.
	workers int
}

func defaultctx() parsectx {
	return parsectx{chunk: DefaultChunkLines, workers: runtime.GOMAXPROCS(0)}
}

type (
	nameopt    string
	chunkopt   int
	workersopt int
)

// FileName sets the document name used in errors.
func FileName(name string) ParseOption {
	return nameopt(name)
}

func (o nameopt) parseOption(p parsectx) parsectx {
	p.name = string(o)
	return p
}

// ChunkLines sets the number of lines above which a document is split into
// chunks of at least that many lines to parse in parallel. Zero disables
// parallel parsing.
func ChunkLines(n int) ParseOption {
	if n < 0 {
		panic("markup: negative chunk size")
	}
	return chunkopt(n)
}

func (o chunkopt) parseOption(p parsectx) parsectx {
	p.chunk = int(o)
	return p
}

// Workers sets the maximum number of chunks parsed at once. Zero or less
// means GOMAXPROCS.
func Workers(n int) ParseOption {
	return workersopt(n)
}

func (o workersopt) parseOption(p parsectx) parsectx {
	p.workers = int(o)
	if p.workers <= 0 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p
}
