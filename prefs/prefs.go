// Package prefs stores the reader's display preferences. The font size is
// read once when a store is opened and written only on explicit change.
package prefs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hazyhaar/feedview/article"
)

// ErrInvalidFontSize is returned for sizes outside article.FontSizes.
var ErrInvalidFontSize = errors.New("prefs: font size not in the allowed set")

// Store is the preference store the reader reads and writes.
type Store interface {
	FontSize() int
	SetFontSize(size int) error
}

func checkFontSize(size int) error {
	if !article.ValidFontSize(size) {
		return fmt.Errorf("%w: %d", ErrInvalidFontSize, size)
	}
	return nil
}

// Memory is a Store that keeps preferences in memory.
type Memory struct {
	mu       sync.Mutex
	fontSize int
}

// NewMemory returns a Memory store starting at size, or at
// article.DefaultFontSize when size is not valid.
func NewMemory(size int) *Memory {
	if !article.ValidFontSize(size) {
		size = article.DefaultFontSize
	}
	return &Memory{fontSize: size}
}

func (m *Memory) FontSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fontSize
}

func (m *Memory) SetFontSize(size int) error {
	if err := checkFontSize(size); err != nil {
		return err
	}
	m.mu.Lock()
	m.fontSize = size
	m.mu.Unlock()
	return nil
}
