package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/storage"
	"github.com/mcoot/spellfight/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &StorageSuite{Suite: storagetest.Suite{
		NewStore: func() storage.Storage { return New() },
	}})
}

func (s *StorageSuite) TestFoundPlayerIsACopy() {
	_, err := s.Store.InsertPlayer(s.Ctx, model.Player{ID: "p1", DisplayName: "Alice"})
	s.Require().NoError(err)

	found, err := s.Store.FindPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	found.DisplayName = "Mallory"

	again, err := s.Store.FindPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", again.DisplayName)
}

func (s *StorageSuite) TestPlayersCountsIdentities() {
	store := s.Store.(*Storage)
	_, _ = store.InsertPlayer(s.Ctx, model.Player{ID: "p1"})
	_, _ = store.InsertPlayer(s.Ctx, model.Player{ID: "p1"})
	_, _ = store.InsertPlayer(s.Ctx, model.Player{ID: "p2"})
	s.Equal(2, store.Players())
}
