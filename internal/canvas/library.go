package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/icza/mjpeg"
)

const (
	// VideoMIME is the fixed content type for every artifact response.
	VideoMIME = "video/x-msvideo"

	videoBaseName  = "canvas"
	videoExtension = ".avi"
	defaultName    = "empty" + videoExtension
	imageDirName   = "images"
)

// ErrImageNotFound reports a lookup of an image name with no stored file.
var ErrImageNotFound = errors.New("image not found")

// Library owns the video artifacts: one per channel, one global, plus the
// process default seeded at startup. Artifact writes go through a temp file
// and rename so a new video replaces the old one in a single step, and a
// per-artifact lock serializes concurrent encoders on the same channel.
type Library struct {
	dir      string
	imageDir string
	size     int
	fps      int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLibrary prepares the artifact directories under dataDir.
func NewLibrary(dataDir string, size, fps int) (*Library, error) {
	if size <= 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid artifact parameters size=%d fps=%d", size, fps)
	}
	imageDir := filepath.Join(dataDir, imageDirName)
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Library{
		dir:      dataDir,
		imageDir: imageDir,
		size:     size,
		fps:      fps,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// VideoPath returns the artifact path for a channel; nil selects the
// global canvas.
func (l *Library) VideoPath(channel *int) string {
	if channel == nil {
		return filepath.Join(l.dir, videoBaseName+videoExtension)
	}
	return filepath.Join(l.dir, videoBaseName+strconv.Itoa(*channel)+videoExtension)
}

// DefaultVideoPath is the process-wide fallback artifact.
func (l *Library) DefaultVideoPath() string {
	return filepath.Join(l.dir, defaultName)
}

// Resolve returns the channel's artifact path if it exists, otherwise the
// process default.
func (l *Library) Resolve(channel *int) string {
	path := l.VideoPath(channel)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return l.DefaultVideoPath()
}

// Composite encodes frame as the channel's single-frame looping video,
// replacing the previous artifact.
func (l *Library) Composite(frame image.Image, channel *int) error {
	return l.writeVideo(frame, l.VideoPath(channel))
}

// SeedDefaults encodes the default artifact (if absent) and the global
// artifact from the given frame, mirroring startup behavior.
func (l *Library) SeedDefaults(frame image.Image) error {
	if _, err := os.Stat(l.DefaultVideoPath()); err != nil {
		if err := l.writeVideo(frame, l.DefaultVideoPath()); err != nil {
			return err
		}
	}
	if _, err := os.Stat(l.VideoPath(nil)); err != nil {
		return l.writeVideo(frame, l.VideoPath(nil))
	}
	return nil
}

// ImageDir is where generated and operator-supplied images live.
func (l *Library) ImageDir() string {
	return l.imageDir
}

// ImagePath resolves a stored image by bare name. Names are flattened to
// their base so a crafted name cannot escape the image directory.
func (l *Library) ImagePath(name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", ErrImageNotFound
	}
	path := filepath.Join(l.imageDir, base)
	if _, err := os.Stat(path); err != nil {
		return "", ErrImageNotFound
	}
	return path, nil
}

// SaveImage persists image bytes under the image directory and returns the
// stored path.
func (l *Library) SaveImage(name string, data []byte) (string, error) {
	path := filepath.Join(l.imageDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save image %s: %w", name, err)
	}
	return path, nil
}

// SavePNG encodes and persists a frame as a named png in the image store.
func (l *Library) SavePNG(name string, frame image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return l.SaveImage(name, buf.Bytes())
}

func (l *Library) writeVideo(frame image.Image, path string) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	lock := l.artifactLock(path)
	lock.Lock()
	defer lock.Unlock()

	tmp := path + ".tmp-" + uuid.NewString()
	writer, err := mjpeg.New(tmp, int32(l.size), int32(l.size), int32(l.fps))
	if err != nil {
		return fmt.Errorf("create video %s: %w", path, err)
	}
	if err := writer.AddFrame(buf.Bytes()); err != nil {
		writer.Close()
		os.Remove(tmp)
		return fmt.Errorf("write frame: %w", err)
	}
	if err := writer.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finish video %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace video %s: %w", path, err)
	}
	return nil
}

func (l *Library) artifactLock(path string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[path] = lock
	}
	return lock
}
