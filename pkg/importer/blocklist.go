package importer

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Blocklist rejects import URLs whose host matches a blocked domain. The
// domain list lives in a plain text file (one domain per line, # comments)
// and is reloaded automatically when the file changes.
type Blocklist struct {
	mu      sync.RWMutex
	domains map[string]struct{}

	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewBlocklist loads the blocklist file and starts watching it for changes.
// An empty path yields a blocklist that blocks nothing.
func NewBlocklist(path string) (*Blocklist, error) {
	b := &Blocklist{
		domains: make(map[string]struct{}),
		path:    path,
		done:    make(chan struct{}),
	}
	if path == "" {
		return b, nil
	}

	if err := b.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch blocklist: %w", err)
	}
	b.watcher = watcher
	go b.watch()
	return b, nil
}

// Close stops the file watcher.
func (b *Blocklist) Close() error {
	if b.watcher == nil {
		return nil
	}
	close(b.done)
	return b.watcher.Close()
}

// IsBlocked reports whether the URL's host, or any parent domain of it, is
// on the blocklist.
func (b *Blocklist) IsBlocked(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return true
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	// Check the host and each parent domain, so blocking example.com also
	// blocks www.example.com.
	for host != "" {
		if _, ok := b.domains[host]; ok {
			return true
		}
		i := strings.Index(host, ".")
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return false
}

// Len returns the number of blocked domains.
func (b *Blocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.domains)
}

func (b *Blocklist) reload() error {
	f, err := os.Open(b.path)
	if err != nil {
		return fmt.Errorf("failed to open blocklist: %w", err)
	}
	defer f.Close()

	domains := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read blocklist: %w", err)
	}

	b.mu.Lock()
	b.domains = domains
	b.mu.Unlock()
	return nil
}

func (b *Blocklist) watch() {
	for {
		select {
		case <-b.done:
			return
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := b.reload(); err != nil {
				logrus.WithError(err).Warn("Failed to reload import blocklist")
				continue
			}
			logrus.WithField("domains", b.Len()).Info("Reloaded import blocklist")
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Warn("Blocklist watcher error")
		}
	}
}
