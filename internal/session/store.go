package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/bantuin-gateway/internal/logger"
)

// TokenEvent изменение сохранённого токена. External означает, что токен
// поменял другой процесс (второй экземпляр CLI, ручное редактирование файла).
type TokenEvent struct {
	Token    string
	External bool
}

// TokenStore единственное место чтения и записи токена.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
	Subscribe(fn func(TokenEvent)) (unsubscribe func())
}

// Watcher хранилище, умеющее следить за внешними изменениями.
type Watcher interface {
	Watch(ctx context.Context) error
}

type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(TokenEvent)
}

func (s *subscribers) add(fn func(TokenEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(TokenEvent))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers) publish(ev TokenEvent) {
	s.mu.Lock()
	fns := make([]func(TokenEvent), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// FileStore хранит токен в файле с правами 0600.
type FileStore struct {
	path string

	mu      sync.Mutex
	current string
	loaded  bool

	subs         subscribers
	watching     chan struct{}
	watchingOnce sync.Once
}

// NewFileStore создаёт хранилище. Каталог создаётся при первой записи.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:     filepath.Clean(path),
		watching: make(chan struct{}),
	}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) read() (string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: не удалось прочитать токен: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (f *FileStore) Load() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loaded {
		return f.current, nil
	}
	tok, err := f.read()
	if err != nil {
		return "", err
	}
	f.current, f.loaded = tok, true
	return tok, nil
}

func (f *FileStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return f.Clear()
	}

	f.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		f.mu.Unlock()
		return fmt.Errorf("session: не удалось создать каталог: %w", err)
	}
	f.current, f.loaded = token, true
	err := writeAtomic(f.path, []byte(token+"\n"))
	f.mu.Unlock()
	if err != nil {
		return fmt.Errorf("session: не удалось сохранить токен: %w", err)
	}

	f.subs.publish(TokenEvent{Token: token})
	return nil
}

// writeAtomic пишет во временный файл и переименовывает его, чтобы наблюдатель
// не увидел усечённый файл.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".token-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	f.current, f.loaded = "", true
	err := os.Remove(f.path)
	f.mu.Unlock()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: не удалось удалить токен: %w", err)
	}

	f.subs.publish(TokenEvent{})
	return nil
}

func (f *FileStore) Subscribe(fn func(TokenEvent)) func() {
	return f.subs.add(fn)
}

// Watch следит за файлом токена до отмены ctx. Собственные записи не публикуются повторно.
func (f *FileStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("session: fsnotify: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: не удалось создать каталог: %w", err)
	}
	// следим за каталогом: файл может быть удалён и создан заново
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("session: не удалось следить за %s: %w", dir, err)
	}
	f.watchingOnce.Do(func() { close(f.watching) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path || ev.Op == fsnotify.Chmod {
				continue
			}
			f.reload()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Entry().WithFields(logrus.Fields{"error": err.Error(), "path": f.path}).Warn("session: token watcher error")
		}
	}
}

func (f *FileStore) reload() {
	tok, err := f.read()
	if err != nil {
		logger.Entry().WithField("error", err.Error()).Warn("session: token reload failed")
		return
	}

	f.mu.Lock()
	if f.loaded && tok == f.current {
		f.mu.Unlock()
		return
	}
	f.current, f.loaded = tok, true
	f.mu.Unlock()

	f.subs.publish(TokenEvent{Token: tok, External: true})
}

// MemoryStore хранилище в памяти для тестов и одноразовых запусков CLI (--token).
type MemoryStore struct {
	mu    sync.Mutex
	token string
	subs  subscribers
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.set(token, false)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.set("", false)
	return nil
}

func (m *MemoryStore) Subscribe(fn func(TokenEvent)) func() {
	return m.subs.add(fn)
}

// SetExternal имитирует изменение токена другим процессом.
func (m *MemoryStore) SetExternal(token string) {
	m.set(token, true)
}

func (m *MemoryStore) set(token string, external bool) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	m.subs.publish(TokenEvent{Token: token, External: external})
}
