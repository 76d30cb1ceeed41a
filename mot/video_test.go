package mot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimestamp(t *testing.T) {
	cases := []struct {
		frame int
		fps   int
		shift time.Duration
	}{
		{0, 30, 0},
		{29, 30, 0},
		{30, 30, time.Second},
		{89, 30, 2 * time.Second},
		{50, 25, 2 * time.Second},
		// Non-positive fps falls back to 30
		{60, 0, 2 * time.Second},
	}
	for _, tc := range cases {
		answer := FrameTimestamp(testVideoStart, tc.frame, tc.fps)
		if !answer.Equal(testVideoStart.Add(tc.shift)) {
			t.Errorf("frame %d at %d fps: wrong answer %s, correct answer: %s", tc.frame, tc.fps, answer, testVideoStart.Add(tc.shift))
		}
	}
}

func TestVideoStart(t *testing.T) {
	det := newDetection(1, 95, BBox{0, 0, 10, 10})
	assert.True(t, VideoStart(&det, 30).Equal(testVideoStart))
	assert.True(t, VideoStart(&det, -1).Equal(testVideoStart))
}

func TestParseVideoName(t *testing.T) {
	info, err := ParseVideoName("/data/videos/Hermeco Oficinas_10.50.60.47_2_20201002191740_20201002191804_1602193437830.mp4")
	require.NoError(t, err)
	assert.Equal(t, "Hermeco Oficinas_10.50.60.47_2_20201002191740_20201002191804_1602193437830.mp4", info.Name)
	assert.Equal(t, "Hermeco Oficinas", info.Site)
	assert.Equal(t, "10.50.60.47", info.StoreID)
	assert.Equal(t, 2, info.CameraID)
	assert.True(t, info.Start.Equal(testVideoStart))
	assert.True(t, info.Stop.Equal(time.Date(2020, 10, 2, 19, 18, 4, 0, time.UTC)))

	bad := []string{
		"",
		"video.mp4",
		"Site_10.50.60.47_cam_20201002191740_20201002191804.mp4",
		"Site_10.50.60.47_2_yesterday_20201002191804.mp4",
		"Site_10.50.60.47_2_20201002191740_now.mp4",
	}
	for _, name := range bad {
		_, err := ParseVideoName(name)
		assert.ErrorIs(t, err, ErrBadVideoName, "name '%s'", name)
	}
}
