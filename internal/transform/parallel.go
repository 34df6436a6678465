package transform

import (
	"runtime"
	"sync"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// minParallelPixels is the total pixel count below which row loops run
// sequentially. Small buffers finish faster than the pool dispatch overhead.
const minParallelPixels = 1 << 16

var (
	poolOnce sync.Once
	rowPool  *workerpool.Pool
)

func sharedPool() *workerpool.Pool {
	poolOnce.Do(func() {
		rowPool = workerpool.New(runtime.GOMAXPROCS(0))
	})
	return rowPool
}

// forEachRow applies fn to every row index in [0, rows). Rows are independent
// in all pixel transforms, so parallel execution cannot change the output.
func forEachRow(rows, rowPixels int, fn func(y int)) {
	if rows*rowPixels < minParallelPixels {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}
	sharedPool().ParallelFor(rows, func(start, end int) {
		for y := start; y < end; y++ {
			fn(y)
		}
	})
}
