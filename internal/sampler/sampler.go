package sampler

import (
	"context"
	"image"
	"sync"
	"time"

	"focus_tracker/internal/camera"
	"focus_tracker/internal/detector"
	apperrors "focus_tracker/internal/errors"
	"focus_tracker/internal/timelog"

	"github.com/rs/zerolog"
)

const DefaultInterval = 100 * time.Millisecond

// Sample is one classified frame. Frame is the mirrored image that was
// passed to the detector.
type Sample struct {
	Entry   timelog.Entry
	Frame   image.Image
	Focused bool
}

// Sampler classifies camera frames on a fixed cadence and records the
// verdicts in the focus log.
type Sampler struct {
	source   camera.Source
	detector detector.Detector
	log      *timelog.Log
	interval time.Duration
	logger   zerolog.Logger
}

func New(source camera.Source, det detector.Detector, log *timelog.Log, interval time.Duration, logger zerolog.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		source:   source,
		detector: det,
		log:      log,
		interval: interval,
		logger:   logger,
	}
}

// Run is one tracking activation running on its own goroutine.
type Run struct {
	samples chan Sample
	done    chan struct{}
	cancel  context.CancelFunc

	mu    sync.Mutex
	err   error
	count int
}

// Start opens the camera and samples until Stop is called, ctx is
// cancelled, or the camera fails.
func (s *Sampler) Start(ctx context.Context) *Run {
	ctx, cancel := context.WithCancel(ctx)
	r := &Run{
		samples: make(chan Sample, 1),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	go func() {
		defer close(r.done)
		defer cancel()
		err := s.loop(ctx, r)
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
	}()

	return r
}

// Samples delivers the latest previews. A preview the consumer has not
// picked up is dropped; the log entry behind it is already recorded.
func (r *Run) Samples() <-chan Sample {
	return r.samples
}

// Done is closed once the camera has been released.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

func (r *Run) Stop() {
	r.cancel()
}

// Wait blocks until the run ends and returns why it ended. Cancellation is
// not an error.
func (r *Run) Wait() error {
	<-r.done
	return r.Err()
}

func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Count is the number of entries the run has recorded.
func (r *Run) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (s *Sampler) loop(ctx context.Context, r *Run) error {
	if ctx.Err() != nil {
		return nil
	}

	handle, err := s.source.Open(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to open camera")
		return apperrors.NewCameraUnavailable("failed to access the camera", err)
	}
	defer func() {
		if err := handle.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to release camera")
		}
		s.logger.Info().Msg("camera released")
	}()
	s.logger.Info().Dur("interval", s.interval).Msg("tracking started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := handle.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error().Err(err).Msg("camera read failed")
			return apperrors.NewFrameReadFailure(err)
		}

		mirrored := Mirror(frame)
		focused := s.detector.Detect(mirrored)
		entry, err := s.log.Record(timelog.StatusForVerdict(focused), "")
		if err != nil {
			return err
		}

		r.mu.Lock()
		r.count++
		r.mu.Unlock()

		select {
		case r.samples <- Sample{Entry: entry, Frame: mirrored, Focused: focused}:
		default:
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
