package mot

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/mot-cleaner/config"
	"github.com/pkg/errors"
)

const (
	// VideoTimeLayout is layout of start/stop stamps inside video file names
	VideoTimeLayout = "20060102150405"
)

var (
	// ErrBadVideoName is returned when video file name does not follow camera recorder naming
	ErrBadVideoName = errors.New("bad video file name")
)

// FrameTimestamp returns absolute time of the frame: video start plus whole seconds elapsed at fixed fps
func FrameTimestamp(videoStart time.Time, frame, fps int) time.Time {
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return videoStart.Add(time.Duration(frame/fps) * time.Second)
}

// VideoStart recovers video start time from any detection of that video
func VideoStart(det *Detection, fps int) time.Time {
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return det.Timestamp.Add(-time.Duration(det.Frame/fps) * time.Second)
}

// VideoInfo is metadata encoded into recorder's video file name
type VideoInfo struct {
	Name     string
	Site     string
	StoreID  string
	CameraID int
	Start    time.Time
	Stop     time.Time
}

// ParseVideoName parses file names produced by store recorders:
//
//	<site>_<store>_<camera>_<start YYYYmmddHHMMSS>_<stop YYYYmmddHHMMSS>_<sequence>.<ext>
//
// e.g. "Hermeco Oficinas_10.50.60.47_2_20201002191740_20201002191804_1602193437830.mp4"
func ParseVideoName(videoPath string) (VideoInfo, error) {
	name := filepath.Base(videoPath)
	items := strings.Split(strings.TrimSuffix(name, filepath.Ext(name)), "_")
	if len(items) < 5 {
		return VideoInfo{}, errors.Wrapf(ErrBadVideoName, "'%s': expected at least 5 underscore separated parts, got %d", name, len(items))
	}
	cameraID, err := strconv.Atoi(items[2])
	if err != nil {
		return VideoInfo{}, errors.Wrapf(ErrBadVideoName, "'%s': camera '%s' is not a number", name, items[2])
	}
	start, err := time.Parse(VideoTimeLayout, items[3])
	if err != nil {
		return VideoInfo{}, errors.Wrapf(ErrBadVideoName, "'%s': start time '%s'", name, items[3])
	}
	stop, err := time.Parse(VideoTimeLayout, items[4])
	if err != nil {
		return VideoInfo{}, errors.Wrapf(ErrBadVideoName, "'%s': stop time '%s'", name, items[4])
	}
	return VideoInfo{
		Name:     name,
		Site:     items[0],
		StoreID:  items[1],
		CameraID: cameraID,
		Start:    start,
		Stop:     stop,
	}, nil
}
