package compare

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lotcheck/internal/model"
	"github.com/sells-group/lotcheck/pkg/anthropic"
	"github.com/sells-group/lotcheck/pkg/ebay"
)

type mockApify struct {
	mock.Mock
}

func (m *mockApify) FetchItems(ctx context.Context, catawikiURL string) ([]map[string]any, error) {
	args := m.Called(ctx, catawikiURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

type mockEbay struct {
	mock.Mock
}

func (m *mockEbay) Search(ctx context.Context, title string, limit int) ([]ebay.ItemSummary, error) {
	args := m.Called(ctx, title, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ebay.ItemSummary), args.Error(1)
}

type mockResearcher struct {
	mock.Mock
}

func (m *mockResearcher) Research(ctx context.Context, title string, domains []string) ([]model.ResearchListing, error) {
	args := m.Called(ctx, title, domains)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ResearchListing), args.Error(1)
}

type mockAnthropic struct {
	mock.Mock
}

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}
