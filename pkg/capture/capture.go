// Package capture reads frames from an OpenCV video source into Mats
// the converters can alias.
package capture

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/framecv/pkg/native/mat"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type Connection interface {
	UUID() string
	Read(*mat.Mat) error
	IsOpen() bool
	Close() error
}

// Connect opens addr, a file path or stream URL, unless ctx is done first.
func Connect(ctx context.Context, addr string) (Connection, error) {
	conn := openCVConnection{}
	if err := conn.connect(ctx, addr); err != nil {
		return nil, err
	}
	return &conn, nil
}

type openCVConnection struct {
	uuid   string
	mu     sync.Mutex
	isOpen bool
	vc     *gocv.VideoCapture
}

func (c *openCVConnection) connect(ctx context.Context, addr string) error {
	connAndError := make(chan openVideoStreamResult, 1)
	go openVideoStream(addr, connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			return r.err
		}
		c.vc = r.vc
		c.isOpen = true
		return nil
	case <-ctx.Done():
		return xerror.New("connection cancelled")
	}
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(addr string, d chan openVideoStreamResult) {
	vc, err := openVideoCapture(addr)
	d <- openVideoStreamResult{vc: vc, err: err}
}

var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

var readFromVideoConnection = func(vc *gocv.VideoCapture, m *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(m)
	}
	return false
}

func (c *openCVConnection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

// Read fills m with the next frame. m must own its data, it is resized
// by OpenCV as needed.
func (c *openCVConnection) Read(m *mat.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !readFromVideoConnection(c.vc, m.Mat()) {
		return xerror.New("unable to read from video connection")
	}
	return nil
}

func (c *openCVConnection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isOpen {
		return c.vc.IsOpened()
	}
	return false
}

func (c *openCVConnection) Close() error {
	c.mu.Lock()
	c.isOpen = false
	c.mu.Unlock()
	return c.vc.Close()
}
