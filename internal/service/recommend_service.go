package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/logger"
)

const (
	historyOrders   = 10
	topFlavorCount  = 3
	hotDishesInHint = 10
	hotCombosInHint = 5
)

type RecommendServiceInterface interface {
	Recommend(ctx context.Context, userID int) (*domain.Recommendation, error)
}

// RecommendService asks a chat model for a personal suggestion and keeps only
// the suggested items that are on sale right now. Any failure of the model
// call degrades to an empty recommendation.
type RecommendService struct {
	repo    RecommendationRepository
	stats   StatisticsServiceInterface
	chat    ChatCompleter
	timeout time.Duration
	loc     *time.Location
	now     Clock
}

func NewRecommendService(repo RecommendationRepository, stats StatisticsServiceInterface, chat ChatCompleter, timeout time.Duration, loc *time.Location) *RecommendService {
	if loc == nil {
		loc = time.Local
	}
	return &RecommendService{
		repo:    repo,
		stats:   stats,
		chat:    chat,
		timeout: timeout,
		loc:     loc,
		now:     time.Now,
	}
}

type modelReply struct {
	RecommendationText string `json:"recommendationText"`
	RecommendedItems   []struct {
		Name string          `json:"name"`
		Type domain.ItemType `json:"type"`
	} `json:"recommendedItems"`
}

func (s *RecommendService) Recommend(ctx context.Context, userID int) (*domain.Recommendation, error) {
	empty := &domain.Recommendation{ActionableItems: []domain.RecommendedItem{}}

	prompt, err := s.buildPrompt(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.chat == nil {
		return empty, nil
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	content, err := s.chat.Complete(callCtx, prompt)
	if err != nil {
		logger.From(ctx).Warn().Err(err).Int("user_id", userID).Msg("recommendation model call failed")
		return empty, nil
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(stripFence(content)), &reply); err != nil {
		logger.From(ctx).Warn().Err(err).Int("user_id", userID).Msg("recommendation reply is not valid json")
		return empty, nil
	}

	result := &domain.Recommendation{
		RecommendationText: strings.TrimSpace(reply.RecommendationText),
		ActionableItems:    []domain.RecommendedItem{},
	}
	seen := map[domain.ItemRef]bool{}
	for _, suggested := range reply.RecommendedItems {
		if !suggested.Type.Valid() {
			continue
		}
		item, err := s.repo.FindAvailableByName(ctx, suggested.Type, strings.TrimSpace(suggested.Name))
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find recommended item: %w", err)
		}
		if seen[item.ItemRef] {
			continue
		}
		seen[item.ItemRef] = true
		result.ActionableItems = append(result.ActionableItems, domain.RecommendedItem{
			ID:   item.ItemID,
			Name: item.Name,
			Type: item.ItemType,
		})
	}
	return result, nil
}

func (s *RecommendService) buildPrompt(ctx context.Context, userID int) (string, error) {
	history, err := s.repo.RecentPaidItems(ctx, userID, historyOrders)
	if err != nil {
		return "", fmt.Errorf("recent paid items: %w", err)
	}
	dishes, err := s.repo.AvailableItemNames(ctx, domain.ItemTypeDish)
	if err != nil {
		return "", fmt.Errorf("available dishes: %w", err)
	}
	combos, err := s.repo.AvailableItemNames(ctx, domain.ItemTypeCombo)
	if err != nil {
		return "", fmt.Errorf("available combos: %w", err)
	}
	hotDishes, err := s.hotNames(ctx, domain.ItemTypeDish, hotDishesInHint)
	if err != nil {
		return "", err
	}
	hotCombos, err := s.hotNames(ctx, domain.ItemTypeCombo, hotCombosInHint)
	if err != nil {
		return "", err
	}

	historyText := "这位用户是第一次光临，还没有历史订单。"
	if len(history) > 0 {
		parts := make([]string, 0, len(history))
		for _, h := range history {
			parts = append(parts, fmt.Sprintf("%s (x%d)", h.Name, h.Quantity))
		}
		historyText = strings.Join(parts, ", ")
	}
	flavors := strings.Join(topFlavors(history, topFlavorCount), ", ")
	if flavors == "" {
		flavors = "暂无明确口味偏好"
	}

	var b strings.Builder
	b.WriteString("你是\"功夫宅急送\"校园外卖的点餐助手，语气亲切风趣。请根据用户的历史订单、口味偏好、当前时间和热销榜单，给出个性化的点餐建议。\n\n")
	fmt.Fprintf(&b, "当前时间: %s\n", mealTime(s.now().In(s.loc).Hour()))
	fmt.Fprintf(&b, "用户口味偏好: %s\n", flavors)
	fmt.Fprintf(&b, "历史订单: %s\n\n", historyText)
	b.WriteString("可选菜单 (只能从以下名称中推荐):\n")
	fmt.Fprintf(&b, "- 在售菜品: %s\n", strings.Join(dishes, ", "))
	fmt.Fprintf(&b, "- 在售套餐: %s\n", strings.Join(combos, ", "))
	fmt.Fprintf(&b, "热销菜品: %s\n", strings.Join(hotDishes, ", "))
	fmt.Fprintf(&b, "热销套餐: %s\n\n", strings.Join(hotCombos, ", "))
	b.WriteString("请写一段推荐文案，推荐1-2个商品并说明理由，然后只返回如下JSON对象，不要附加任何解释:\n")
	b.WriteString(`{"recommendationText": "推荐文案", "recommendedItems": [{"name": "商品名称", "type": "dish 或 combo"}]}`)
	b.WriteString("\nname 必须与可选菜单中的名称完全一致；没有推荐时 recommendedItems 为空数组。")
	return b.String(), nil
}

func (s *RecommendService) hotNames(ctx context.Context, kind domain.ItemType, limit int) ([]string, error) {
	if s.stats == nil {
		return nil, nil
	}
	items, err := s.stats.HotItems(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("hot %ss: %w", kind, err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.ItemName)
	}
	return names, nil
}

// topFlavors counts how many history lines picked each flavor. Ties are
// broken by name.
func topFlavors(history []HistoryItem, n int) []string {
	counts := map[string]int{}
	for _, h := range history {
		for _, f := range h.Flavors {
			counts[f]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func mealTime(hour int) string {
	switch {
	case hour >= 5 && hour < 10:
		return "现在是早餐时间"
	case hour >= 10 && hour < 16:
		return "现在是午餐时间"
	default:
		return "现在是晚餐时间"
	}
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

var _ RecommendServiceInterface = (*RecommendService)(nil)
