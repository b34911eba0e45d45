package camera

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gofrs/flock"
)

// ErrDeviceBusy means another process holds the device lock.
var ErrDeviceBusy = errors.New("camera device is in use by another process")

// FFmpegConfig describes how to capture raw frames from ffmpeg.
type FFmpegConfig struct {
	Binary      string
	InputFormat string
	Device      string
	Width       int
	Height      int
	LockDir     string
}

// FFmpeg captures frames by piping rgb24 rawvideo out of an ffmpeg process.
type FFmpeg struct {
	cfg FFmpegConfig
}

func NewFFmpeg(cfg FFmpegConfig) *FFmpeg {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.LockDir == "" {
		cfg.LockDir = os.TempDir()
	}
	return &FFmpeg{cfg: cfg}
}

// Args returns the ffmpeg command line for the configured device.
func (f *FFmpeg) Args() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", f.cfg.InputFormat,
		"-video_size", fmt.Sprintf("%dx%d", f.cfg.Width, f.cfg.Height),
		"-i", f.cfg.Device,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	}
}

// LockPath is the lock file guarding exclusive use of the device.
func (f *FFmpeg) LockPath() string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(f.cfg.Device))
	return filepath.Join(f.cfg.LockDir, "focus-tracker-camera-"+strconv.FormatUint(uint64(h.Sum32()), 16)+".lock")
}

func (f *FFmpeg) Open(ctx context.Context) (Handle, error) {
	if f.cfg.Width <= 0 || f.cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", f.cfg.Width, f.cfg.Height)
	}
	if _, err := exec.LookPath(f.cfg.Binary); err != nil {
		return nil, fmt.Errorf("find %s: %w", f.cfg.Binary, err)
	}

	lock := flock.New(f.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire camera lock: %w", err)
	}
	if !ok {
		return nil, ErrDeviceBusy
	}

	procCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(procCtx, f.cfg.Binary, f.Args()...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		_ = lock.Unlock()
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		_ = lock.Unlock()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	return &ffmpegHandle{
		cmd:    cmd,
		cancel: cancel,
		lock:   lock,
		stdout: bufio.NewReaderSize(stdout, f.cfg.Width*f.cfg.Height*3),
		width:  f.cfg.Width,
		height: f.cfg.Height,
	}, nil
}

type ffmpegHandle struct {
	cmd       *exec.Cmd
	cancel    context.CancelFunc
	lock      *flock.Flock
	stdout    *bufio.Reader
	width     int
	height    int
	closeOnce sync.Once
	closeErr  error
}

// Read blocks until a full frame arrives. Cancelling ctx kills ffmpeg, which
// unblocks the pending read.
func (h *ffmpegHandle) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, h.cancel)
	defer stop()

	buf := make([]byte, h.width*h.height*3)
	if _, err := io.ReadFull(h.stdout, buf); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return decodeRGB24(buf, h.width, h.height), nil
}

func (h *ffmpegHandle) Close() error {
	h.closeOnce.Do(func() {
		h.cancel()
		// ffmpeg exits non-zero when killed; that is the expected way out.
		_ = h.cmd.Wait()
		h.closeErr = h.lock.Unlock()
	})
	return h.closeErr
}

func decodeRGB24(buf []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i+2 < len(buf); i, j = i+3, j+4 {
		img.Pix[j] = buf[i]
		img.Pix[j+1] = buf[i+1]
		img.Pix[j+2] = buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
