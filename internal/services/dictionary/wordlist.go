package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mcoot/spellfight/internal/storage"
)

// WordList is a local dictionary used when the remote service cannot confirm
// a word. It is replaced wholesale, never edited in place.
type WordList struct {
	storage storage.Storage
	logger  *slog.Logger

	words atomic.Pointer[map[string]struct{}]
}

// NewWordList creates an empty word list backed by storage
func NewWordList(storage storage.Storage, logger *slog.Logger) *WordList {
	return &WordList{
		storage: storage,
		logger:  logger.With(slog.String("component", "word_list")),
	}
}

// Restore loads the list saved by a previous Import
func (l *WordList) Restore(ctx context.Context) error {
	words, err := l.storage.Words(ctx)
	if err != nil {
		return err
	}
	l.Set(words)
	return nil
}

// ImportFile reads one word per line from path; see Import
func (l *WordList) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return l.Import(ctx, f)
}

// Import reads one word per line, keeps those made only of letters, saves
// them for the next start and makes them live. It returns how many were kept.
func (l *WordList) Import(ctx context.Context, r io.Reader) (int, error) {
	var words []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || !lettersOnly(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read word list: %w", err)
	}

	if err := l.storage.ReplaceWords(ctx, words); err != nil {
		return 0, fmt.Errorf("save word list: %w", err)
	}
	l.words.Store(&seen)
	l.logger.Info("word list imported", slog.Int("words", len(words)))
	return len(words), nil
}

// Set makes words the live list without saving it
func (l *WordList) Set(words []string) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	l.words.Store(&set)
}

// Loaded reports whether any list has been made live
func (l *WordList) Loaded() bool {
	return l.words.Load() != nil
}

// Len returns the number of live words
func (l *WordList) Len() int {
	if set := l.words.Load(); set != nil {
		return len(*set)
	}
	return 0
}

// Exists reports whether word is on the live list
func (l *WordList) Exists(ctx context.Context, word string) bool {
	set := l.words.Load()
	if set == nil {
		return false
	}
	_, ok := (*set)[strings.ToLower(word)]
	return ok
}

var _ Checker = (*WordList)(nil)

func lettersOnly(word string) bool {
	for _, c := range word {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
