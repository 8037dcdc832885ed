package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/infra/ai"
	"github.com/Qenawi/idle-mining/internal/infra/cache"
)

type fakeProvider struct {
	reply     string
	err       error
	available bool
	calls     int
	lastReq   ai.CompletionRequest
}

func (f *fakeProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &ai.CompletionResponse{Content: f.reply, TotalTokens: 42, Latency: time.Millisecond}, nil
}

func (f *fakeProvider) GetUsageStats() ai.UsageStats { return ai.UsageStats{} }
func (f *fakeProvider) ResetUsage()                  {}
func (f *fakeProvider) Name() string                 { return "fake" }
func (f *fakeProvider) IsAvailable() bool            { return f.available }

func sampleSnapshot() Snapshot {
	return Snapshot{
		Cash:                    1500,
		SiteLevels:              []int{3, 1},
		ElevatorLevel:           2,
		ElevatorStorageFullness: 45,
		CartLevel:               1,
		MarketLevel:             4,
		IdleIncome:              12.4,
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		12.4:      "12",
		999:       "999",
		1500:      "1.50K",
		1234567:   "1.23M",
		2.5e9:     "2.50B",
		1e12:      "1.00T",
		1e15:      "1.00aa",
		2.5e18:    "2.50ab",
		3.2e90:    "3.20az",
		4.0e93:    "4.00ba",
		999999.0:  "1000.00K",
		987654321: "987.65M",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%v)", in)
	}
}

func TestSnapshot_Summary(t *testing.T) {
	want := "- Cash: $1.50K\n" +
		"- Mine sites: 2 sites. Levels: 3, 1.\n" +
		"- Elevator: Level 2. Storage is 45% full.\n" +
		"- Pipeline: Level 1.\n" +
		"- Market: Level 4.\n" +
		"- Idle Income: $12/s"
	assert.Equal(t, want, sampleSnapshot().Summary())
}

func TestFromState(t *testing.T) {
	b := rules.DefaultBalance()
	st := b.InitialState()
	st.Sites[0].Level = 7
	st.Elevator.Storage.Add(st.Sites[0].ResourceID, 455)

	snap := FromState(b, st, 100)

	assert.Equal(t, []int{7}, snap.SiteLevels)
	assert.Equal(t, 46, snap.ElevatorStorageFullness)
	assert.Equal(t, 1, snap.ElevatorLevel)
	assert.Equal(t, 1, snap.CartLevel)
	assert.Equal(t, 1, snap.MarketLevel)
	assert.InDelta(t, st.Cash, snap.Cash, 1e-9)
	assert.InDelta(t, 100.0, snap.IdleIncome, 1e-9)

	st.Sites[0].Level = 8
	assert.Equal(t, []int{7}, snap.SiteLevels)
}

func TestAdvisor_TipTrimsAndCaches(t *testing.T) {
	p := &fakeProvider{reply: "  Upgrade the pipeline to drain storage.\n", available: true}
	tips, err := cache.NewTipCache(8, time.Minute)
	require.NoError(t, err)
	a := NewAdvisor(p, tips, nil)

	tip, err := a.Tip(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Upgrade the pipeline to drain storage.", tip)
	require.Len(t, p.lastReq.Messages, 2)
	assert.Contains(t, p.lastReq.Messages[1].Content, "Storage is 45% full.")

	again, err := a.Tip(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, tip, again)
	assert.Equal(t, 1, p.calls)

	changed := sampleSnapshot()
	changed.Cash = 2500
	_, err = a.Tip(context.Background(), changed)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestAdvisor_ProviderFailure(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota exceeded"), available: true}
	a := NewAdvisor(p, nil, nil)

	_, err := a.Tip(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, ErrAdvisorUnavailable)
	assert.Equal(t, "Could not get a tip from the AI advisor. Please try again later.", err.Error())
}

func TestAdvisor_EmptyAnswer(t *testing.T) {
	p := &fakeProvider{reply: " \n ", available: true}
	tips, err := cache.NewTipCache(8, time.Minute)
	require.NoError(t, err)
	a := NewAdvisor(p, tips, nil)

	_, err = a.Tip(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, ErrAdvisorUnavailable)
	assert.Equal(t, 0, tips.Len())
}

func TestAdvisor_Unconfigured(t *testing.T) {
	p := &fakeProvider{reply: "tip"}
	a := NewAdvisor(p, nil, nil)

	assert.False(t, a.Available())
	_, err := a.Tip(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, ErrAdvisorUnavailable)
	assert.Equal(t, 0, p.calls)
}
