package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redrepo "github.com/m2dev/codefolio/internal/repo/redis"
	"github.com/m2dev/codefolio/internal/services/events"
)

func newTestFeed(t *testing.T) (*events.Feed, *redrepo.CacheRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redrepo.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	cache := redrepo.NewCacheRepo(client)
	feed := events.NewFeed(redrepo.NewEventsRepo(client), cache, nil)
	return feed, cache
}

func TestFeedDeliversChangeToWatcher(t *testing.T) {
	feed, _ := newTestFeed(t)
	ctx := context.Background()

	ch, cancel, err := feed.Watch(ctx, "projects")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()

	feed.Publish(ctx, "projects")

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("no change event delivered")
	}
}

func TestFeedPublishInvalidatesCache(t *testing.T) {
	feed, cache := newTestFeed(t)
	ctx := context.Background()

	if err := cache.SetPortfolio(ctx, []byte(`{"profile":null}`), time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	feed.Publish(ctx, "skills")

	_, ok, err := cache.GetPortfolio(ctx)
	if err != nil {
		t.Fatalf("get cache: %v", err)
	}
	if ok {
		t.Fatalf("cache entry survived a publish")
	}
}

func TestFeedWatchIsScopedToCollection(t *testing.T) {
	feed, _ := newTestFeed(t)
	ctx := context.Background()

	ch, cancel, err := feed.Watch(ctx, "projects")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()

	feed.Publish(ctx, "skills")

	select {
	case <-ch:
		t.Fatalf("received event for a different collection")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFeedCancelStopsDelivery(t *testing.T) {
	feed, _ := newTestFeed(t)
	ctx := context.Background()

	ch, cancel, err := feed.Watch(ctx, "projects")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	cancel()
	cancel() // safe to call twice

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed after cancel")
		}
	}
}
