package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"atlas-backend/domain/energy"
)

// SourceSpec describes one external source available to queries
type SourceSpec struct {
	Name      string  `yaml:"name"`
	Relevance float64 `yaml:"relevance"`
	Preview   string  `yaml:"preview"`
	Cost      float64 `yaml:"cost"`
}

// TuningFile is the on-disk shape of the runtime tuning document
type TuningFile struct {
	Energy  energy.Tuning `yaml:"energy"`
	Sources []SourceSpec  `yaml:"sources"`
}

// TuningWatcher serves the current energy tuning and reloads it when
// the backing file changes. With no path configured it degrades to a
// static holder of the defaults.
type TuningWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}

	mu      sync.RWMutex
	current TuningFile
}

// NewStaticTuning returns a watcher that only ever serves the given
// tuning. Used when no tuning file is configured and in tests.
func NewStaticTuning(t energy.Tuning) *TuningWatcher {
	return &TuningWatcher{
		current: TuningFile{Energy: t},
		stopCh:  make(chan struct{}),
	}
}

// NewTuningWatcher loads the tuning file and begins watching it
func NewTuningWatcher(path string, logger *zap.Logger) (*TuningWatcher, error) {
	loaded, err := loadTuningFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tuning file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch tuning file: %w", err)
	}

	// Watch the directory too so atomic saves (write to temp, rename)
	// still produce an event for our file
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch tuning directory", zap.Error(err))
	}

	return &TuningWatcher{
		path:    path,
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
		current: loaded,
	}, nil
}

// Start begins watching for tuning changes
func (w *TuningWatcher) Start() {
	if w.watcher == nil {
		return
	}
	go w.watchLoop()
	w.logger.Info("Tuning watcher started", zap.String("path", w.path))
}

// Stop stops watching for tuning changes
func (w *TuningWatcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

// Current returns the energy tuning in effect right now
func (w *TuningWatcher) Current() energy.Tuning {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current.Energy
}

// Sources returns the configured external source specs
func (w *TuningWatcher) Sources() []SourceSpec {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]SourceSpec, len(w.current.Sources))
	copy(out, w.current.Sources)
	return out
}

func (w *TuningWatcher) watchLoop() {
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, func() {
					w.reload()
				})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *TuningWatcher) reload() {
	w.logger.Info("Tuning file changed, reloading", zap.String("path", w.path))

	loaded, err := loadTuningFile(w.path)
	if err != nil {
		w.logger.Error("Failed to reload tuning, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	old := w.current.Energy
	w.current = loaded
	w.mu.Unlock()

	if old != loaded.Energy {
		w.logger.Info("Energy tuning updated",
			zap.Float64("navigate_cost", loaded.Energy.NavigateCost),
			zap.Float64("assemble_cost", loaded.Energy.AssembleCost),
			zap.Float64("integrate_cost", loaded.Energy.IntegrateCost),
		)
	}
}

// loadTuningFile reads and validates a tuning document. Omitted energy
// fields fall back to the defaults.
func loadTuningFile(path string) (TuningFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TuningFile{}, fmt.Errorf("failed to read tuning file: %w", err)
	}

	loaded := TuningFile{Energy: energy.DefaultTuning()}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return TuningFile{}, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}

	if err := loaded.Energy.Validate(); err != nil {
		return TuningFile{}, err
	}
	for _, src := range loaded.Sources {
		if src.Name == "" {
			return TuningFile{}, fmt.Errorf("source entry missing name")
		}
		if src.Relevance < 0 || src.Relevance > 1 {
			return TuningFile{}, fmt.Errorf("source %s relevance must be within [0,1]", src.Name)
		}
		if src.Cost < 0 {
			return TuningFile{}, fmt.Errorf("source %s cost cannot be negative", src.Name)
		}
	}
	return loaded, nil
}
