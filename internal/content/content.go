// Package content serves the editorial home-page content (top banner, hero
// slides, promo sections) from a YAML file, with optional hot reload.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/18Minahil/vanya-storefront/internal/domain"
)

var (
	errPathRequired = errors.New("content: path is required")
	// ErrNoHeroSlides indicates a content file without a usable carousel.
	ErrNoHeroSlides = errors.New("content: at least one hero slide is required")
)

// Load reads and validates the content file.
func Load(path string) (domain.Content, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Content{}, errPathRequired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Content{}, fmt.Errorf("content: read %s: %w", path, err)
	}

	var parsed domain.Content
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return domain.Content{}, fmt.Errorf("content: parse %s: %w", path, err)
	}

	if err := validate(parsed); err != nil {
		return domain.Content{}, err
	}
	return parsed, nil
}

func validate(c domain.Content) error {
	if len(c.HeroSlides) == 0 {
		return ErrNoHeroSlides
	}
	for i, slide := range c.HeroSlides {
		if strings.TrimSpace(slide.Image) == "" {
			return fmt.Errorf("content: hero slide %d is missing an image", i)
		}
	}
	return nil
}

// ProviderDeps bundles constructor inputs for the content provider.
type ProviderDeps struct {
	Path   string
	Logger *zap.Logger
	// Watch enables reloading when the file changes on disk.
	Watch bool
}

// Provider caches the content file and hands out copies. With Watch enabled
// it follows edits to the file; a broken edit keeps the last good content.
type Provider struct {
	mu          sync.RWMutex
	path        string
	logger      *zap.Logger
	content     domain.Content
	subscribers []func(domain.Content)

	watcher *fsnotify.Watcher
	done    chan struct{}
	closed  sync.Once
}

// NewProvider loads the content file and, when requested, starts watching it.
func NewProvider(deps ProviderDeps) (*Provider, error) {
	path := strings.TrimSpace(deps.Path)
	if path == "" {
		return nil, errPathRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	initial, err := Load(path)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		path:    path,
		logger:  logger,
		content: initial,
	}

	if deps.Watch {
		if err := p.startWatcher(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Content returns a copy of the current content.
func (p *Provider) Content() domain.Content {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneContent(p.content)
}

// Subscribe registers a callback invoked after every successful reload.
func (p *Provider) Subscribe(fn func(domain.Content)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// Close stops the watcher, if any. It is safe to call more than once.
func (p *Provider) Close() error {
	var err error
	p.closed.Do(func() {
		if p.watcher != nil {
			close(p.done)
			err = p.watcher.Close()
		}
	})
	return err
}

func (p *Provider) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watcher: %w", err)
	}
	// Watch the directory: editors commonly replace the file wholesale,
	// which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("content: watch %s: %w", filepath.Dir(p.path), err)
	}

	p.watcher = watcher
	p.done = make(chan struct{})

	go p.watch()
	return nil
}

func (p *Provider) watch() {
	target := filepath.Clean(p.path)
	for {
		select {
		case <-p.done:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			p.reload()
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("content watcher error", zap.Error(err))
		}
	}
}

func (p *Provider) reload() {
	updated, err := Load(p.path)
	if err != nil {
		p.logger.Warn("content reload failed, keeping last good content",
			zap.String("path", p.path),
			zap.Error(err),
		)
		return
	}

	p.mu.Lock()
	p.content = updated
	subscribers := make([]func(domain.Content), len(p.subscribers))
	copy(subscribers, p.subscribers)
	p.mu.Unlock()

	p.logger.Info("content reloaded", zap.String("path", p.path))
	for _, fn := range subscribers {
		fn(cloneContent(updated))
	}
}

func cloneContent(c domain.Content) domain.Content {
	dup := c
	if len(c.HeroSlides) > 0 {
		dup.HeroSlides = make([]domain.HeroSlide, len(c.HeroSlides))
		copy(dup.HeroSlides, c.HeroSlides)
	}
	if len(c.PromoSections) > 0 {
		dup.PromoSections = make([]domain.PromoSection, len(c.PromoSections))
		copy(dup.PromoSections, c.PromoSections)
	}
	return dup
}
