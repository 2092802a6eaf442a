package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Skotchmaster/storefront/internal/catalogfeed"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo/gormrepo"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type publishedEvent struct {
	Topic string
	Key   string
	Type  string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ev, _ := event.(events.Event)
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Type: ev.Type})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeFeed struct {
	products []catalogfeed.Product
	err      error
}

func (f fakeFeed) Fetch(context.Context) ([]catalogfeed.Product, error) {
	return f.products, f.err
}

type fakeIndex struct {
	indexed   []models.Product
	reindexed []models.Product
	total     int64
	hits      []models.Product
	err       error
	lastFrom  int
	lastSize  int
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	f.indexed = append(f.indexed, p)
	return nil
}

func (f *fakeIndex) ReindexAll(_ context.Context, products []models.Product) error {
	f.reindexed = products
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, from, size int) (int64, []models.Product, error) {
	f.lastFrom, f.lastSize = from, size
	return f.total, f.hits, f.err
}

type fixture struct {
	repo    *gormrepo.GormRepo
	events  *recordingPublisher
	auth    *AuthService
	catalog *CatalogService
	cart    *CartService
	index   *fakeIndex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := gormrepo.New(testutil.InitTestDB(t))
	pub := &recordingPublisher{}
	idx := &fakeIndex{}
	return &fixture{
		repo:   r,
		events: pub,
		index:  idx,
		auth: &AuthService{
			Users:  r,
			Tokens: tokens.NewService([]byte("test-jwt-secret"), 0),
			Events: pub,
		},
		catalog: &CatalogService{Products: r, Feed: fakeFeed{}, Index: idx, Events: pub},
		cart:    &CartService{Carts: r, Products: r, Events: pub, CheckCumulativeStock: true},
	}
}

func (f *fixture) product(t *testing.T, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Title: "Phone", Description: "A phone", Price: 100, Stock: stock, Category: "smartphones"}
	if err := f.repo.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}
