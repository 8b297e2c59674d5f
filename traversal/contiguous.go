package traversal

import "github.com/nathanhack/memprobe/bitcount"

// Contiguous scans the buffer front to back, one unit at a time.
// It is the cache friendly traversal.
type Contiguous struct{}

func (Contiguous) Order() Order {
	return ContiguousOrder
}

func (Contiguous) Clear(buffer []byte, dim int) {
	n := dim * dim
	for i := 0; i < n; i++ {
		buffer[i] = 0
	}
}

func (Contiguous) CheckZerosAndFlip(buffer []byte, dim int) (zeroToOneFlips uint64) {
	n := dim * dim
	for i := 0; i < n; i++ {
		if buffer[i] != 0 {
			zeroToOneFlips += uint64(bitcount.Ones(buffer[i]))
		}
		buffer[i] = bitcount.AllOnes
	}
	return
}

func (Contiguous) CheckOnesAndFlip(buffer []byte, dim int) (oneToZeroFlips uint64) {
	n := dim * dim
	for i := 0; i < n; i++ {
		if buffer[i] != bitcount.AllOnes {
			oneToZeroFlips += uint64(bitcount.Zeros(buffer[i]))
		}
		buffer[i] = 0
	}
	return
}
