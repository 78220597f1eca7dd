package lalin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
	"github.com/laporan-latin/laporan-latin/internal/lalin/lalin_mocks"
)

func newTestService(t *testing.T, source lalin.Source) (*lalin.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := lalin.NewCache(client, time.Minute)
	return lalin.NewService(source, cache, lalin.ServiceOptions{PageLimit: 2, Concurrency: 2}), mr
}

func recordsFor(date string, ids ...int64) []lalin.TransactionRecord {
	d, _ := lalin.ParseDate(date)
	out := make([]lalin.TransactionRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, lalin.TransactionRecord{ID: id, BranchID: 1, GateID: id, LaneID: 1, Date: d, Shift: 1, Class: 1, Cash: id * 1000})
	}
	return out
}

func TestServicePageIsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	want := lalin.Page{Records: recordsFor("2023-11-01", 1, 2), TotalPages: 1, CurrentPage: 1, Count: 2}
	source.EXPECT().
		ListLalin(gomock.Any(), "tok", lalin.Query{Date: "2023-11-01", Page: 1, Limit: 2}).
		Return(want, nil).
		Times(1)

	ctx := context.Background()
	first, err := svc.Page(ctx, "tok", lalin.Query{Date: "2023-11-01"})
	require.NoError(t, err)
	second, err := svc.Page(ctx, "tok", lalin.Query{Date: "2023-11-01", Page: 1})
	require.NoError(t, err)

	assert.Equal(t, want.Count, first.Count)
	assert.Equal(t, len(want.Records), len(second.Records))
	assert.Equal(t, want.Records[1].Cash, second.Records[1].Cash)
	assert.True(t, want.Records[0].Date.Equal(second.Records[0].Date))
}

func TestServicePageSurvivesSharedCallerCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	want := lalin.Page{Records: recordsFor("2023-11-01", 1), TotalPages: 1, CurrentPage: 1, Count: 1}
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	source.EXPECT().
		ListLalin(gomock.Any(), "tok", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ lalin.Query) (lalin.Page, error) {
			once.Do(func() { close(started) })
			<-release
			if err := ctx.Err(); err != nil {
				return lalin.Page{}, err
			}
			return want, nil
		}).
		MinTimes(1)

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.Page(leaderCtx, "tok", lalin.Query{Date: "2023-11-01"})
		leaderErr <- err
	}()
	<-started

	type result struct {
		page lalin.Page
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		page, err := svc.Page(context.Background(), "tok", lalin.Query{Date: "2023-11-01"})
		follower <- result{page, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, want.Count, got.page.Count)
}

func TestServicePageHonoursCallerDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	release := make(chan struct{})
	done := make(chan struct{})
	source.EXPECT().
		ListLalin(gomock.Any(), "tok", gomock.Any()).
		DoAndReturn(func(context.Context, string, lalin.Query) (lalin.Page, error) {
			defer close(done)
			<-release
			return lalin.Page{TotalPages: 1, CurrentPage: 1}, nil
		})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.Page(ctx, "tok", lalin.Query{Date: "2023-11-01"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
}

func TestServiceInvalidateRefetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	source.EXPECT().
		ListLalin(gomock.Any(), "tok", gomock.Any()).
		Return(lalin.Page{TotalPages: 1, CurrentPage: 1}, nil).
		Times(2)

	ctx := context.Background()
	_, err := svc.Page(ctx, "tok", lalin.Query{Date: "2023-11-01"})
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Page(ctx, "tok", lalin.Query{Date: "2023-11-01"})
	require.NoError(t, err)
}

func TestServiceRejectsBadDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	_, err := svc.Page(context.Background(), "tok", lalin.Query{Date: "2023/11/01"})
	assert.Error(t, err)
}

func TestServiceReportAggregatesPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	source.EXPECT().
		ListLalin(gomock.Any(), "tok", lalin.Query{Date: "2023-11-01", Page: 2, Limit: 2}).
		Return(lalin.Page{Records: recordsFor("2023-11-01", 3, 4), TotalPages: 3, CurrentPage: 2, Count: 6}, nil)

	result, err := svc.Report(context.Background(), "tok", lalin.Query{Date: "2023-11-01", Page: 2}, lalin.ModeCash)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.CurrentPage)
	assert.Equal(t, lalin.ModeCash, result.Report.Mode)
	require.Len(t, result.Report.Rows, 2)
	assert.Equal(t, int64(7000), result.Report.Grand.Total)
}

func TestServiceReportRejectsInvalidMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newTestService(t, lalin_mocks.NewMockSource(ctrl))

	_, err := svc.Report(context.Background(), "tok", lalin.Query{Date: "2023-11-01"}, lalin.PaymentMode(99))
	assert.Error(t, err)
}

func TestServiceDayConcatenatesPagesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	pages := map[int][]lalin.TransactionRecord{
		1: recordsFor("2023-11-01", 1, 2),
		2: recordsFor("2023-11-01", 3, 4),
		3: recordsFor("2023-11-01", 5),
	}
	source.EXPECT().
		ListLalin(gomock.Any(), "tok", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, q lalin.Query) (lalin.Page, error) {
			return lalin.Page{Records: pages[q.Page], TotalPages: 3, CurrentPage: q.Page, Count: 5}, nil
		}).
		Times(3)

	records, err := svc.Day(context.Background(), "tok", "2023-11-01")
	require.NoError(t, err)

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
}

func TestServiceDayPropagatesPageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	boom := errors.New("upstream down")
	source.EXPECT().
		ListLalin(gomock.Any(), "tok", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, q lalin.Query) (lalin.Page, error) {
			if q.Page == 2 {
				return lalin.Page{}, boom
			}
			return lalin.Page{Records: recordsFor("2023-11-01", int64(q.Page)), TotalPages: 2, CurrentPage: q.Page}, nil
		}).
		Times(2)

	_, err := svc.Day(context.Background(), "tok", "2023-11-01")
	assert.ErrorIs(t, err, boom)
}

func TestServiceDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := lalin_mocks.NewMockSource(ctrl)
	svc, _ := newTestService(t, source)

	source.EXPECT().
		ListLalin(gomock.Any(), "tok", gomock.Any()).
		Return(lalin.Page{Records: recordsFor("2023-11-01", 1, 2), TotalPages: 1, CurrentPage: 1, Count: 2}, nil)

	dash, err := svc.Dashboard(context.Background(), "tok", "2023-11-01")
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Records)
	assert.Equal(t, int64(3000), dash.Charged)
	require.Len(t, dash.ByBranch, 1)
	assert.Equal(t, int64(100), dash.ByBranch[0].Percent)
}

func TestCacheWithoutClientCallsLoader(t *testing.T) {
	cache := lalin.NewCache(nil, time.Minute)
	key, err := cache.BuildKey(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)

	var out []int
	calls := 0
	for i := 0; i < 2; i++ {
		err := cache.FetchJSON(context.Background(), key, &out, func(context.Context) (any, error) {
			calls++
			return []int{1, 2}, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1, 2}, out)
}
