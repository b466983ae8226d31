// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
//
// Fixed-size byte buffer pool for datagram buffers.

package pool

import "sync"

// BytePool hands out fixed-size byte slices, recycling them through a
// sync.Pool. All buffers from one BytePool share the same capacity.
type BytePool struct {
	size int
	pool sync.Pool
}

// NewBytePool creates a pool of buffers of exactly size bytes.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.pool.New = func() any {
		return make([]byte, size)
	}
	return bp
}

// GetBuffer returns a buffer of the pool's fixed size.
func (b *BytePool) GetBuffer() []byte {
	return b.pool.Get().([]byte)
}

// PutBuffer returns a buffer to the pool. Buffers of the wrong capacity
// are dropped for the GC.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	b.pool.Put(buf[:b.size])
}

// Size reports the fixed buffer size of this pool.
func (b *BytePool) Size() int { return b.size }
