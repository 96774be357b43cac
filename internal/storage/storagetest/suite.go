// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/storage"
)

// Suite runs the storage contract against a fresh store per test. Backends
// embed it and set NewStore.
type Suite struct {
	suite.Suite
	NewStore func() storage.Storage

	Store storage.Storage
	Ctx   context.Context
}

var created = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.Store = s.NewStore()
	s.Ctx = context.Background()
}

func facebookPlayer() model.Player {
	return model.Player{
		ID:          "fb-1001",
		DisplayName: "Frank",
		Email:       "frank@example.com",
		Avatar:      "https://graph.facebook.com/1001/picture",
		Provider:    model.ProviderFacebook,
		CreatedAt:   created,
	}
}

func (s *Suite) TestInsertThenFind() {
	inserted, err := s.Store.InsertPlayer(s.Ctx, facebookPlayer())
	s.Require().NoError(err)
	s.True(inserted)

	found, err := s.Store.FindPlayer(s.Ctx, "fb-1001")
	s.Require().NoError(err)
	s.Equal("Frank", found.DisplayName)
	s.Equal("frank@example.com", found.Email)
	s.Equal("https://graph.facebook.com/1001/picture", found.Avatar)
	s.Equal(model.ProviderFacebook, found.Provider)
	s.True(created.Equal(found.CreatedAt))
}

func (s *Suite) TestInsertKeepsFirstRecord() {
	_, err := s.Store.InsertPlayer(s.Ctx, facebookPlayer())
	s.Require().NoError(err)

	renamed := facebookPlayer()
	renamed.DisplayName = "Francis"
	inserted, err := s.Store.InsertPlayer(s.Ctx, renamed)
	s.Require().NoError(err)
	s.False(inserted)

	found, err := s.Store.FindPlayer(s.Ctx, "fb-1001")
	s.Require().NoError(err)
	s.Equal("Frank", found.DisplayName)
}

func (s *Suite) TestFindUnknownPlayer() {
	_, err := s.Store.FindPlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreateAccountStoresIdentity() {
	player := model.Player{ID: "p-ann", DisplayName: "Ann", Email: "ann@example.com", Provider: model.ProviderLocal, CreatedAt: created}
	account := model.Account{Username: "ann", PlayerID: "p-ann", PasswordHash: "hash", CreatedAt: created}
	s.Require().NoError(s.Store.CreateAccount(s.Ctx, account, player))

	found, err := s.Store.FindAccount(s.Ctx, "ann")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-ann"), found.PlayerID)
	s.Equal("hash", found.PasswordHash)

	identity, err := s.Store.FindPlayer(s.Ctx, "p-ann")
	s.Require().NoError(err)
	s.Equal("ann@example.com", identity.Email)
}

func (s *Suite) TestUsernameIsClaimedOnce() {
	first := model.Account{Username: "ann", PlayerID: "p-1", PasswordHash: "a", CreatedAt: created}
	s.Require().NoError(s.Store.CreateAccount(s.Ctx, first, model.Player{ID: "p-1", DisplayName: "Ann", Provider: model.ProviderLocal}))

	second := model.Account{Username: "ann", PlayerID: "p-2", PasswordHash: "b", CreatedAt: created}
	err := s.Store.CreateAccount(s.Ctx, second, model.Player{ID: "p-2", DisplayName: "Impostor", Provider: model.ProviderLocal})
	s.ErrorIs(err, model.ErrUsernameTaken)

	found, err := s.Store.FindAccount(s.Ctx, "ann")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), found.PlayerID)

	_, err = s.Store.FindPlayer(s.Ctx, "p-2")
	s.ErrorIs(err, model.ErrPlayerNotFound, "a rejected signup leaves no identity behind")
}

func (s *Suite) TestFindUnknownAccount() {
	_, err := s.Store.FindAccount(s.Ctx, "ghost")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestWordsBeforeLoad() {
	_, err := s.Store.Words(s.Ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *Suite) TestReplaceWords() {
	s.Require().NoError(s.Store.ReplaceWords(s.Ctx, []string{"cab", "bad", "faced"}))
	s.Require().NoError(s.Store.ReplaceWords(s.Ctx, []string{"fig", "cab"}))

	words, err := s.Store.Words(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"fig", "cab"}, words)
}
