package factory

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/spellfight/internal/dependencies/mocks"
	"github.com/mcoot/spellfight/internal/services/auth"
	"github.com/mcoot/spellfight/internal/services/dictionary"
	"github.com/mcoot/spellfight/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Words are checked against the in-memory word list only.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	words := dictionary.NewWordList(store, logger)
	app := newWithDependencies(store, mockClock, mockRandom, words, Config{
		AuthConfig: auth.Config{BcryptCost: bcrypt.MinCost},
	}, logger)
	app.Words = words

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		// 2-letter words
		"at", "be", "do", "go", "he", "if", "in", "is", "it", "me",
		// 3-letter words
		"ace", "add", "age", "bad", "bag", "bed", "cab", "dab", "fab", "fad",
		"fed", "gab", "bee", "cat", "dog", "egg", "fig", "hat", "ice", "jam",
		// 4-letter words
		"aced", "babe", "bead", "cafe", "deaf", "face", "fade", "gaff", "game", "word",
		// 5-letter words
		"badge", "faced", "cabbed",
	}
	_, err := t.Words.Import(context.Background(), strings.NewReader(strings.Join(words, "\n")))
	return err
}
