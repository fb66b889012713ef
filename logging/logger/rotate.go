package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// fileRotator writes to <base>.<YYYY-MM-DD>.log and switches files daily.
type fileRotator struct {
	base string

	mu   sync.Mutex
	file *os.File
	day  string
	stop chan struct{}
}

func newFileRotator(path string) (*fileRotator, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	r := &fileRotator{
		base: strings.TrimSuffix(path, ".log"),
		stop: make(chan struct{}),
	}
	if err := r.rotate(time.Now()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileRotator) filename(day string) string {
	return fmt.Sprintf("%s.%s.log", r.base, day)
}

func (r *fileRotator) rotate(now time.Time) error {
	day := now.Format("2006-01-02")

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file != nil && r.day == day {
		return nil
	}

	f, err := os.OpenFile(r.filename(day), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if r.file != nil {
		_ = r.file.Close()
	}
	r.file, r.day = f, day
	return nil
}

func (r *fileRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return 0, os.ErrClosed
	}
	return r.file.Write(p)
}

func (r *fileRotator) run(onErr func(error)) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			if err := r.rotate(now); err != nil {
				onErr(err)
			}
		}
	}
}

func (r *fileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
