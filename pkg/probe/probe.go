package probe

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/tauraamui/framecv/pkg/capture"
	"github.com/tauraamui/framecv/pkg/configdef"
	"github.com/tauraamui/framecv/pkg/convert"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/log"
	"github.com/tauraamui/framecv/pkg/native"
	"github.com/tauraamui/framecv/pkg/native/iplimage"
	"github.com/tauraamui/framecv/pkg/native/mat"
	"github.com/tauraamui/framecv/pkg/testcard"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const testCardName = "test-card"

// Result is what probing one frame found out.
type Result struct {
	Name      string
	Flavor    native.Flavor
	Width     int
	Height    int
	Channels  int
	Depth     frame.Depth
	Stride    int
	Step      int
	Reused    bool
	RoundTrip bool
}

type source struct {
	name  string
	frame *frame.Frame
}

var connect = capture.Connect

// Run converts every configured frame into the configured native
// flavor and back again. Frames read from captures always arrive as
// Mats and are probed in the opposite direction.
func Run(ctx context.Context, fs afero.Fs, v configdef.Values) ([]Result, error) {
	sources, err := loadSources(fs, v)
	if err != nil {
		return nil, err
	}

	var results []Result
	switch v.Flavor {
	case native.FlavorMat.String():
		results, err = probeAll(mat.NewConverter(), sources)
	default:
		results, err = probeAll(iplimage.NewConverter(), sources)
	}
	if err != nil {
		return results, err
	}

	for _, addr := range v.Captures {
		captured, err := probeCapture(ctx, addr, v.CaptureFrames)
		results = append(results, captured...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func probeCapture(ctx context.Context, addr string, frames int) ([]Result, error) {
	conn, err := connect(ctx, addr)
	if err != nil {
		return nil, xerror.Errorf("unable to open capture %s: %w", addr, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error("unable to close capture %s: %v", addr, err)
		}
	}()

	c := mat.NewConverter()
	defer c.Close()

	m := mat.Wrap(gocv.NewMat())
	defer m.Close()

	results := make([]Result, 0, frames)
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if err := conn.Read(m); err != nil {
			return results, xerror.Errorf("capture %s failed at frame %d: %w", addr, i, err)
		}

		r, err := probeMat(c, m)
		if err != nil {
			return results, xerror.Errorf("probe of %s frame %d failed: %w", addr, i, err)
		}
		r.Name = fmt.Sprintf("%s#%d", addr, i)
		log.Info("%s: %s %dx%dx%d %s stride %d, step %d, reused %t, round trip %t",
			r.Name, r.Flavor, r.Width, r.Height, r.Channels, r.Depth, r.Stride, r.Step, r.Reused, r.RoundTrip)
		results = append(results, r)
	}
	return results, nil
}

func probeMat(c *convert.Converter[*mat.Mat], m *mat.Mat) (Result, error) {
	f, err := c.FromNative(m)
	if err != nil {
		return Result{}, err
	}
	again, err := c.FromNative(m)
	if err != nil {
		return Result{}, err
	}

	d, err := c.ToNative(f)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Flavor:    m.Flavor(),
		Width:     f.Width,
		Height:    f.Height,
		Channels:  f.Channels,
		Depth:     f.Depth,
		Stride:    f.Stride,
		Step:      m.Step(),
		Reused:    again == f,
		RoundTrip: d == m,
	}, nil
}

func loadSources(fs afero.Fs, v configdef.Values) ([]source, error) {
	sources := []source{}
	for _, path := range v.Dumps {
		d, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, xerror.Errorf("unable to read frame dump %s: %w", path, err)
		}
		f, err := frame.Unmarshal(d)
		if err != nil {
			return nil, xerror.Errorf("unable to load frame dump %s: %w", path, err)
		}
		sources = append(sources, source{name: path, frame: f})
	}

	if v.TestCard.Enabled {
		f, err := testcard.Frame(v.TestCard.Width, v.TestCard.Height, v.TestCard.Title)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source{name: testCardName, frame: f})
	}
	return sources, nil
}

func probeAll[D native.Descriptor](c *convert.Converter[D], sources []source) ([]Result, error) {
	defer c.Close()

	results := make([]Result, 0, len(sources))
	for _, s := range sources {
		r, err := probeOne(c, s)
		if err != nil {
			return results, xerror.Errorf("probe of %s failed: %w", s.name, err)
		}
		log.Info("%s: %s %dx%dx%d %s stride %d, step %d, reused %t, round trip %t",
			r.Name, r.Flavor, r.Width, r.Height, r.Channels, r.Depth, r.Stride, r.Step, r.Reused, r.RoundTrip)
		results = append(results, r)
	}
	return results, nil
}

func probeOne[D native.Descriptor](c *convert.Converter[D], s source) (Result, error) {
	d, err := c.ToNative(s.frame)
	if err != nil {
		return Result{}, err
	}
	again, err := c.ToNative(s.frame)
	if err != nil {
		return Result{}, err
	}

	back, err := c.FromNative(d)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Name:      s.name,
		Flavor:    d.Flavor(),
		Width:     d.Width(),
		Height:    d.Height(),
		Channels:  d.Channels(),
		Depth:     back.Depth,
		Stride:    back.Stride,
		Step:      d.Step(),
		Reused:    any(again) == any(d),
		RoundTrip: sameLayout(s.frame, back),
	}, nil
}

func sameLayout(a, b *frame.Frame) bool {
	return a.Width == b.Width && a.Height == b.Height &&
		a.Channels == b.Channels && a.Depth == b.Depth &&
		a.Stride == b.Stride &&
		frame.Address(a.Image[0]) == frame.Address(b.Image[0])
}
