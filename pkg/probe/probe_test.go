package probe_test

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/tauraamui/framecv/pkg/configdef"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
	"github.com/tauraamui/framecv/pkg/probe"
)

func writeDump(is *is.I, fs afero.Fs, path string, f *frame.Frame) {
	d, err := frame.Marshal(f)
	is.NoErr(err)
	is.NoErr(afero.WriteFile(fs, path, d, 0644))
}

func TestRunProbesDumpsAndTestCard(t *testing.T) {
	is := is.New(t)
	fs := afero.NewMemMapFs()
	writeDump(is, fs, "/frames/gray.frame", &frame.Frame{
		Width: 10, Height: 4, Channels: 1, Depth: frame.DepthUByte, Stride: 12,
		Image: [][]byte{make([]byte, 48)},
	})
	writeDump(is, fs, "/frames/float.frame", &frame.Frame{
		Width: 4, Height: 2, Channels: 3, Depth: frame.DepthFloat, Stride: 12,
		Image: [][]byte{make([]byte, 96)},
	})

	results, err := probe.Run(context.TODO(), fs, configdef.Values{
		Flavor:   "iplimage",
		Dumps:    []string{"/frames/gray.frame", "/frames/float.frame"},
		TestCard: configdef.TestCard{Enabled: true, Width: 60, Height: 40, Title: "T"},
	})
	is.NoErr(err)
	is.Equal(len(results), 3)

	gray := results[0]
	is.Equal(gray.Name, "/frames/gray.frame")
	is.Equal(gray.Flavor, native.FlavorIplImage)
	is.Equal(gray.Step, 12)
	is.Equal(gray.Stride, 12)

	float := results[1]
	is.Equal(float.Depth, frame.DepthFloat)
	is.Equal(float.Step, 48)
	is.Equal(float.Stride, 12)

	card := results[2]
	is.Equal(card.Name, "test-card")
	is.Equal(card.Channels, 4)

	for _, r := range results {
		is.True(r.Reused)
		is.True(r.RoundTrip)
	}
}

func TestRunWithMatFlavor(t *testing.T) {
	is := is.New(t)
	results, err := probe.Run(context.TODO(), afero.NewMemMapFs(), configdef.Values{
		Flavor:   "mat",
		TestCard: configdef.TestCard{Enabled: true, Width: 32, Height: 16},
	})
	is.NoErr(err)
	is.Equal(len(results), 1)
	is.Equal(results[0].Flavor, native.FlavorMat)
	is.Equal(results[0].Step, 128)
	is.True(results[0].RoundTrip)
}

func TestRunFailsOnMissingDump(t *testing.T) {
	is := is.New(t)
	_, err := probe.Run(context.TODO(), afero.NewMemMapFs(), configdef.Values{
		Flavor: "iplimage",
		Dumps:  []string{"/frames/missing.frame"},
	})
	is.True(err != nil)
}
