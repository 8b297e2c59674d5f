package traversal

import "github.com/nathanhack/memprobe/bitcount"

// Strided scans the buffer as a column-major walk over a row-major matrix:
// consecutive visits are dim units apart, defeating prefetching and
// spatial locality once a row is larger than a cache line.
type Strided struct{}

func (Strided) Order() Order {
	return StridedOrder
}

func (Strided) Clear(buffer []byte, dim int) {
	for col := 0; col < dim; col++ {
		for row := 0; row < dim; row++ {
			buffer[row*dim+col] = 0
		}
	}
}

func (Strided) CheckZerosAndFlip(buffer []byte, dim int) (zeroToOneFlips uint64) {
	for col := 0; col < dim; col++ {
		for row := 0; row < dim; row++ {
			i := row*dim + col
			if buffer[i] != 0 {
				zeroToOneFlips += uint64(bitcount.Ones(buffer[i]))
			}
			buffer[i] = bitcount.AllOnes
		}
	}
	return
}

func (Strided) CheckOnesAndFlip(buffer []byte, dim int) (oneToZeroFlips uint64) {
	for col := 0; col < dim; col++ {
		for row := 0; row < dim; row++ {
			i := row*dim + col
			if buffer[i] != bitcount.AllOnes {
				oneToZeroFlips += uint64(bitcount.Zeros(buffer[i]))
			}
			buffer[i] = 0
		}
	}
	return
}
