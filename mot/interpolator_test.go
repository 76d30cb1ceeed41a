package mot

import (
	"context"
	"testing"
	"time"

	"github.com/LdDl/mot-cleaner/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterpolator(t *testing.T) {
	ip := NewInterpolator(25, config.FillKalman, 0)
	if ip.fps != 25 {
		t.Errorf("Expected fps 25, got %d", ip.fps)
	}
	if ip.mode != config.FillKalman {
		t.Errorf("Expected kalman mode, got %s", ip.mode)
	}
	if ip.workers != 1 {
		t.Errorf("Non-positive workers should fall back to 1, got %d", ip.workers)
	}

	def := NewDefaultInterpolator()
	if def.fps != 30 || def.mode != config.FillForward || def.workers < 1 {
		t.Errorf("Wrong defaults: fps=%d mode=%s workers=%d", def.fps, def.mode, def.workers)
	}
}

func TestForwardFill(t *testing.T) {
	observed := BBox{10, 20, 110, 220}
	table := NewTable([]Detection{
		newDetection(4, 3, BBox{0, 0, 100, 200}),
		newDetection(4, 4, observed),
		newDetection(4, 7, BBox{30, 20, 130, 220}),
	}, true)
	table.Rows[1].Confidence = 0.42

	res, stats, err := NewInterpolator(30, config.FillForward, 2).Interpolate(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, InterpolateStats{Tracks: 1, FilledTracks: 1, Synthesized: 2}, stats)
	require.Equal(t, 5, res.Len())
	assert.Equal(t, map[int][]int{4: {3, 4, 5, 6, 7}}, trackFrames(res))
	for _, i := range []int{2, 3} {
		det := res.Rows[i]
		assert.True(t, det.Interpolated, "frame %d", det.Frame)
		assert.Equal(t, observed, det.BBox, "frame %d", det.Frame)
		assert.Equal(t, 0.42, det.Confidence, "frame %d", det.Frame)
		assert.Equal(t, "10.50.60.47", det.StoreID)
		assert.Equal(t, 2, det.CameraID)
	}
	assert.False(t, res.Rows[0].Interpolated)
	assert.False(t, res.Rows[4].Interpolated)
	assert.True(t, res.HasSourceVideo)
}

func TestInterpolatedTimestamps(t *testing.T) {
	box := BBox{0, 0, 10, 10}
	table := NewTable([]Detection{
		newDetection(1, 28, box),
		newDetection(1, 29, box),
		newDetection(1, 33, box),
	}, true)

	res, _, err := NewDefaultInterpolator().Interpolate(context.Background(), table)
	require.NoError(t, err)
	require.Equal(t, 6, res.Len())

	for _, det := range res.Rows {
		expected := testVideoStart.Add(time.Duration(det.Frame/30) * time.Second)
		assert.True(t, expected.Equal(det.Timestamp), "frame %d: got %s, expected %s", det.Frame, det.Timestamp, expected)
	}
	// Frames 30, 31, 32 are one whole second into the video
	assert.True(t, res.Rows[2].Timestamp.Equal(testVideoStart.Add(time.Second)))
}

func TestInterpolateOrderAndIndex(t *testing.T) {
	box := BBox{0, 0, 10, 10}
	table := NewTable([]Detection{
		newDetection(7, 5, box),
		newDetection(2, 2, box),
		newDetection(7, 1, box),
		newDetection(2, 4, box),
	}, false)

	res, stats, err := NewDefaultInterpolator().Interpolate(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilledTracks)
	assert.Equal(t, 4, stats.Synthesized)

	frames := make([]int, res.Len())
	ids := make([]int, res.Len())
	for i, det := range res.Rows {
		frames[i] = det.Frame
		ids[i] = det.TrackingID
		assert.Equal(t, i+1, det.Index, "index must be dense and 1-based")
	}
	assert.Equal(t, []int{1, 2, 2, 3, 3, 4, 4, 5}, frames)
	// Track 7 shows up first, so it goes first within every frame
	assert.Equal(t, []int{7, 7, 2, 7, 2, 7, 2, 7}, ids)
	assert.False(t, res.HasSourceVideo)
}

func TestInterpolateWorkersDeterministic(t *testing.T) {
	table := fragmentedScene(11, 6, 300)

	single, _, err := NewInterpolator(30, config.FillForward, 1).Interpolate(context.Background(), table)
	require.NoError(t, err)
	parallel, _, err := NewInterpolator(30, config.FillForward, 8).Interpolate(context.Background(), table)
	require.NoError(t, err)

	if diff := cmp.Diff(single.Rows, parallel.Rows); diff != "" {
		t.Errorf("Result depends on number of workers (-single +parallel):\n%s", diff)
	}
	for _, track := range GroupTracks(parallel) {
		assert.Empty(t, track.MissingFrames(), "track %d", track.TrackingID)
	}
}

func TestInterpolateNoGaps(t *testing.T) {
	box := BBox{0, 0, 10, 10}
	table := NewTable([]Detection{
		newDetection(1, 0, box),
		newDetection(1, 1, box),
		newDetection(2, 5, box),
	}, true)
	before := table.Clone()

	res, stats, err := NewDefaultInterpolator().Interpolate(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Synthesized)
	assert.Equal(t, 0, stats.FilledTracks)
	require.Equal(t, table.Len(), res.Len())
	for i := range res.Rows {
		assert.Equal(t, i+1, res.Rows[i].Index)
		assert.False(t, res.Rows[i].Interpolated)
	}
	assert.Equal(t, before.Rows, table.Rows, "input table must not be modified")

	empty, stats, err := NewDefaultInterpolator().Interpolate(context.Background(), NewTable(nil, false))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0, stats.Tracks)
}

func TestInterpolateCancelled(t *testing.T) {
	table := fragmentedScene(3, 4, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, _, err := NewDefaultInterpolator().Interpolate(ctx, table)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}
