package testingutils

import (
	"errors"
	"sync"
	"time"

	"github.com/markusressel/hwmon2go/internal/transport"
)

// FakePort is an in-memory transport.Port.
// Bytes passed to Feed are returned by Read, writes are recorded.
type FakePort struct {
	mu sync.Mutex

	input   []byte
	written []byte
	closed  bool

	// OnWrite is called (with the port lock held) for every write,
	// the returned bytes are queued as input.
	OnWrite func(data []byte) []byte
	// WriteError is returned by Write when set
	WriteError error

	InputResets  int
	OutputResets int
	ReadTimeout  time.Duration
}

func NewFakePort() *FakePort {
	return &FakePort{}
}

// Feed queues bytes to be returned by Read
func (p *FakePort) Feed(data ...byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = append(p.input, data...)
}

func (p *FakePort) FeedString(text string) {
	p.Feed([]byte(text)...)
}

func (p *FakePort) Read(data []byte) (int, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, transport.ErrClosed
	}
	if len(p.input) == 0 {
		p.mu.Unlock()
		// emulate the read timeout of a real port
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	n := copy(data, p.input)
	p.input = p.input[n:]
	p.mu.Unlock()
	return n, nil
}

func (p *FakePort) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, transport.ErrClosed
	}
	if p.WriteError != nil {
		return 0, p.WriteError
	}
	p.written = append(p.written, data...)
	if p.OnWrite != nil {
		p.input = append(p.input, p.OnWrite(data)...)
	}
	return len(data), nil
}

func (p *FakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("already closed")
	}
	p.closed = true
	return nil
}

func (p *FakePort) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *FakePort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = nil
	p.InputResets++
	return nil
}

func (p *FakePort) ResetOutputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.OutputResets++
	return nil
}

func (p *FakePort) SetReadTimeout(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReadTimeout = timeout
	return nil
}

// WrittenBytes returns a copy of everything written so far
func (p *FakePort) WrittenBytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]byte, len(p.written))
	copy(result, p.written)
	return result
}

func (p *FakePort) ClearWritten() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = nil
}

// PendingInput returns the number of fed bytes not yet read
func (p *FakePort) PendingInput() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.input)
}

// FakeHidDevice is an in-memory transport.HidDevice returning Report on every feature read
type FakeHidDevice struct {
	mu     sync.Mutex
	Report []byte
	Err    error
	Reads  int
	closed bool
}

func (d *FakeHidDevice) SetReport(report []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Report = report
}

func (d *FakeHidDevice) GetFeatureReport(data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Reads++
	if d.Err != nil {
		return 0, d.Err
	}
	return copy(data, d.Report), nil
}

func (d *FakeHidDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *FakeHidDevice) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
