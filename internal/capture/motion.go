package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// blurKernelSize is the Gaussian kernel used to suppress sensor
	// noise before differencing. Must be odd.
	blurKernelSize = 21
	// pixelDiffThreshold is the per-pixel intensity delta that counts
	// as a change.
	pixelDiffThreshold = 25
)

// MotionDetector decides whether anything moved between consecutive
// frames. The pipeline uses it to skip landmark detection entirely on
// still frames, which is what keeps idle CPU usage near zero.
//
// Each frame is grayscaled, blurred, and diffed against the previous
// one; the fraction of pixels whose delta exceeds pixelDiffThreshold
// is compared against the configured percentage threshold.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	prev      gocv.Mat
	primed    bool
}

// NewMotionDetector creates a detector that reports motion when more
// than threshold percent of pixels changed between frames. A threshold
// of 1.0 means one percent of the frame.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect compares frame against the previous one and reports whether
// motion was found along with the percentage of pixels that changed.
// The first frame primes the baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred,
		image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	if !m.primed {
		blurred.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, pixelDiffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(mask)
	total := mask.Rows() * mask.Cols()
	percent := float64(changed) / float64(total) * 100.0

	blurred.CopyTo(&m.prev)

	return percent > m.threshold, percent
}

// SetThreshold changes the motion percentage threshold. Non-positive
// values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}

// Reset drops the baseline so the next frame primes a fresh one.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropBaseline()
}

// Close releases the retained baseline frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropBaseline()
}

func (m *MotionDetector) dropBaseline() {
	if !m.prev.Empty() {
		m.prev.Close()
		m.prev = gocv.NewMat()
	}
	m.primed = false
}
