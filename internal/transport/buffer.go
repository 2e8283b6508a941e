package transport

import (
	"errors"
	"time"

	"github.com/markusressel/hwmon2go/internal/util"
)

var ErrClosed = errors.New("port closed")

// maximum number of reads per Fill, so a chatty device can not stall an update
const maxFillReads = 64

// Buffer accumulates bytes drained from a Port, so framed and line based
// protocols can be decoded from partial reads.
type Buffer struct {
	port    Port
	data    *util.RingBuffer[byte]
	scratch []byte
}

func NewBuffer(port Port) *Buffer {
	return &Buffer{
		port:    port,
		data:    util.NewRingBuffer[byte](512),
		scratch: make([]byte, 256),
	}
}

// Fill reads from the port until a read returns no data.
// It returns the number of bytes added.
func (b *Buffer) Fill() (int, error) {
	if b.port == nil {
		return 0, ErrClosed
	}
	total := 0
	for i := 0; i < maxFillReads; i++ {
		n, err := b.port.Read(b.scratch)
		for _, c := range b.scratch[:n] {
			b.data.Append(c)
		}
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// FillUntil keeps filling until at least n bytes are available or the
// timeout elapses. It returns the number of available bytes.
func (b *Buffer) FillUntil(n int, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := b.Fill(); err != nil {
			return b.Available(), err
		}
		if b.Available() >= n || !time.Now().Before(deadline) {
			return b.Available(), nil
		}
	}
}

func (b *Buffer) Available() int {
	return b.data.Len()
}

// ReadByte removes the oldest byte
func (b *Buffer) ReadByte() (byte, error) {
	c, ok := b.data.Remove()
	if !ok {
		return 0, errors.New("buffer empty")
	}
	return c, nil
}

// Peek returns the byte at the given position without removing it
func (b *Buffer) Peek(index int) byte {
	return b.data.At(index)
}

// Take removes and returns the oldest n bytes. If fewer are available,
// all of them are returned.
func (b *Buffer) Take(n int) []byte {
	if n > b.data.Len() {
		n = b.data.Len()
	}
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i], _ = b.data.Remove()
	}
	return result
}

// Discard drops the oldest n bytes
func (b *Buffer) Discard(n int) {
	for i := 0; i < n; i++ {
		if _, ok := b.data.Remove(); !ok {
			return
		}
	}
}

// IndexByte returns the position of the first occurrence of c, or -1
func (b *Buffer) IndexByte(c byte) int {
	return b.data.IndexFunc(func(item byte) bool {
		return item == c
	})
}

// Purge drops all buffered bytes as well as the OS input buffer of the port
func (b *Buffer) Purge() error {
	b.data.Clear()
	if b.port == nil {
		return ErrClosed
	}
	return b.port.ResetInputBuffer()
}
