package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/mocks"
)

func TestPlanCatalogCache(t *testing.T) {
	t.Parallel()

	plans := []*model.SubscriptionPlan{{ID: "p1", Code: "free", Features: []string{"2 open jobs"}}}
	raw, err := json.Marshal(plans)
	require.NoError(t, err)

	tests := []struct {
		name    string
		setup   func(*mocks.MockCacheRepository)
		want    []*model.SubscriptionPlan
		wantErr bool
	}{
		{
			name: "hit decodes plans",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "plans:active").Return(raw, nil)
			},
			want: plans,
		},
		{
			name: "miss returns nil",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "plans:active").Return(nil, nil)
			},
		},
		{
			name: "corrupt entry is a miss",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "plans:active").Return([]byte("{not json"), nil)
			},
		},
		{
			name: "backend error surfaces",
			setup: func(c *mocks.MockCacheRepository) {
				c.EXPECT().Get(gomock.Any(), "plans:active").Return(nil, errors.New("redis down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setup(cache)

			got, err := core.NewPlanCatalogCache(cache, 5*time.Minute).Get(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanCatalogCache_PutAndInvalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	pc := core.NewPlanCatalogCache(cache, 5*time.Minute)

	cache.EXPECT().Set(gomock.Any(), "plans:active", gomock.Any(), 5*time.Minute).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), "plans:active").Return(true, nil)

	require.NoError(t, pc.Put(context.Background(), []*model.SubscriptionPlan{{Code: "basic"}}))
	require.NoError(t, pc.Invalidate(context.Background()))
}

func TestPlanCatalogCache_NilIsNoop(t *testing.T) {
	var pc *core.PlanCatalogCache
	got, err := pc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, pc.Put(context.Background(), nil))
	require.NoError(t, pc.Invalidate(context.Background()))

	got, err = core.NewPlanCatalogCache(nil, time.Minute).Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestViewDeduper(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	d := core.NewViewDeduper(cache, 30*time.Minute)

	gomock.InOrder(
		cache.EXPECT().SetIfNotExists(gomock.Any(), "job:view:j1:u1", []byte("1"), 30*time.Minute).Return(true, nil),
		cache.EXPECT().SetIfNotExists(gomock.Any(), "job:view:j1:u1", []byte("1"), 30*time.Minute).Return(false, nil),
	)

	first, err := d.FirstView(context.Background(), "j1", "u1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := d.FirstView(context.Background(), "j1", "u1")
	require.NoError(t, err)
	assert.False(t, again)

	counted, err := core.NewViewDeduper(nil, time.Minute).FirstView(context.Background(), "j1", "u1")
	require.NoError(t, err)
	assert.True(t, counted)
}
