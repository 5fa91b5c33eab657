package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/mocks"
	"kungfu-delivery/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecommendService_Recommend(t *testing.T) {
	kungPao := &domain.CatalogItem{ItemRef: domain.ItemRef{ItemType: domain.ItemTypeDish, ItemID: 3}, Name: "宫保鸡丁", Available: true}

	tests := []struct {
		name      string
		reply     string
		replyErr  error
		setupRepo func(*mocks.RecommendationRepository)
		wantText  string
		wantItems []domain.RecommendedItem
	}{
		{
			name:  "keeps only orderable suggestions",
			reply: "```json\n{\"recommendationText\": \" 来点辣的 \", \"recommendedItems\": [{\"name\": \"宫保鸡丁\", \"type\": \"dish\"}, {\"name\": \"宫保鸡丁\", \"type\": \"dish\"}, {\"name\": \"下架套餐\", \"type\": \"combo\"}, {\"name\": \"可乐\", \"type\": \"drink\"}]}\n```",
			setupRepo: func(m *mocks.RecommendationRepository) {
				m.On("FindAvailableByName", mock.Anything, domain.ItemTypeDish, "宫保鸡丁").Return(kungPao, nil).Twice()
				m.On("FindAvailableByName", mock.Anything, domain.ItemTypeCombo, "下架套餐").Return(nil, domain.ErrNotFound).Once()
			},
			wantText:  "来点辣的",
			wantItems: []domain.RecommendedItem{{ID: 3, Name: "宫保鸡丁", Type: domain.ItemTypeDish}},
		},
		{
			name:      "model failure degrades to empty",
			replyErr:  errors.New("timeout"),
			setupRepo: func(m *mocks.RecommendationRepository) {},
			wantItems: []domain.RecommendedItem{},
		},
		{
			name:      "garbage reply degrades to empty",
			reply:     "I recommend noodles",
			setupRepo: func(m *mocks.RecommendationRepository) {},
			wantItems: []domain.RecommendedItem{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewRecommendationRepository(t)
			repo.On("RecentPaidItems", mock.Anything, 7, 10).Return([]service.HistoryItem{
				{Name: "宫保鸡丁", Quantity: 2, Flavors: []string{"特辣"}},
			}, nil).Once()
			repo.On("AvailableItemNames", mock.Anything, domain.ItemTypeDish).Return([]string{"宫保鸡丁", "米饭"}, nil).Once()
			repo.On("AvailableItemNames", mock.Anything, domain.ItemTypeCombo).Return([]string{"午餐套餐"}, nil).Once()
			testCase.setupRepo(repo)

			stats := mocks.NewStatisticsServiceInterface(t)
			stats.On("HotItems", mock.Anything, domain.ItemTypeDish, 10).Return([]domain.HotItem{{ItemName: "米饭"}}, nil).Once()
			stats.On("HotItems", mock.Anything, domain.ItemTypeCombo, 5).Return([]domain.HotItem{}, nil).Once()

			chat := mocks.NewChatCompleter(t)
			chat.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
				return strings.Contains(prompt, "宫保鸡丁 (x2)") && strings.Contains(prompt, "特辣") &&
					strings.Contains(prompt, "热销菜品: 米饭")
			})).Return(testCase.reply, testCase.replyErr).Once()

			svc := service.NewRecommendService(repo, stats, chat, time.Second, time.UTC)
			got, err := svc.Recommend(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantText, got.RecommendationText)
			assert.Equal(t, testCase.wantItems, got.ActionableItems)
		})
	}
}

func TestRecommendService_HistoryErrorFails(t *testing.T) {
	repo := mocks.NewRecommendationRepository(t)
	repo.On("RecentPaidItems", mock.Anything, 1, 10).Return(nil, errors.New("db down")).Once()

	svc := service.NewRecommendService(repo, nil, mocks.NewChatCompleter(t), time.Second, time.UTC)
	_, err := svc.Recommend(context.Background(), 1)
	assert.Error(t, err)
}
