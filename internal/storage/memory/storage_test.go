package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/geochain/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = NewWithLimit(3)
	s.ctx = context.Background()
}

func summary(roomID string, plays int) *model.GameSummary {
	return &model.GameSummary{
		RoomID:  model.RoomID(roomID),
		Plays:   plays,
		Scores:  []model.FinalScore{{Username: "alice", Score: plays}},
		EndedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Gazetteer tests

func (s *StorageSuite) TestGetPlaceNamesNotLoaded() {
	_, err := s.storage.GetPlaceNames(s.ctx)
	s.ErrorIs(err, model.ErrPlacesNotLoaded)
}

func (s *StorageSuite) TestSaveAndGetPlaceNames() {
	err := s.storage.SavePlaceNames(s.ctx, []string{"Argentina", "Brazil"})
	s.Require().NoError(err)

	names, err := s.storage.GetPlaceNames(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Argentina", "Brazil"}, names)
}

func (s *StorageSuite) TestSavePlaceNamesReplaces() {
	_ = s.storage.SavePlaceNames(s.ctx, []string{"Argentina"})
	_ = s.storage.SavePlaceNames(s.ctx, []string{"Chile"})

	names, err := s.storage.GetPlaceNames(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Chile"}, names)
}

func (s *StorageSuite) TestGetPlaceNamesReturnsCopy() {
	_ = s.storage.SavePlaceNames(s.ctx, []string{"Argentina"})

	names, _ := s.storage.GetPlaceNames(s.ctx)
	names[0] = "changed"

	again, _ := s.storage.GetPlaceNames(s.ctx)
	s.Equal("Argentina", again[0])
}

// Game summary tests

func (s *StorageSuite) TestListGameSummariesEmpty() {
	summaries, err := s.storage.ListGameSummaries(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(summaries)
}

func (s *StorageSuite) TestListGameSummariesNewestFirst() {
	s.Require().NoError(s.storage.SaveGameSummary(s.ctx, summary("AAAAAA", 1)))
	s.Require().NoError(s.storage.SaveGameSummary(s.ctx, summary("BBBBBB", 2)))

	summaries, err := s.storage.ListGameSummaries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(model.RoomID("BBBBBB"), summaries[0].RoomID)
	s.Equal(model.RoomID("AAAAAA"), summaries[1].RoomID)
}

func (s *StorageSuite) TestListGameSummariesRespectsLimit() {
	for i := 0; i < 3; i++ {
		_ = s.storage.SaveGameSummary(s.ctx, summary(fmt.Sprintf("ROOM%02d", i), i))
	}

	summaries, err := s.storage.ListGameSummaries(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(summaries, 2)
	s.Equal(model.RoomID("ROOM02"), summaries[0].RoomID)
}

func (s *StorageSuite) TestSaveGameSummaryTrimsToRetention() {
	for i := 0; i < 5; i++ {
		_ = s.storage.SaveGameSummary(s.ctx, summary(fmt.Sprintf("ROOM%02d", i), i))
	}

	summaries, err := s.storage.ListGameSummaries(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(summaries, 3)
	s.Equal(model.RoomID("ROOM04"), summaries[0].RoomID)
	s.Equal(model.RoomID("ROOM02"), summaries[2].RoomID)
}
