package main

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/advdv/apigw/gwapp"
	"github.com/advdv/apigw/gwroute"
)

// Priority ranks items.
type Priority string

const (
	Low  Priority = "low"
	High Priority = "high"
)

// EnumValues lists the valid priorities.
func (Priority) EnumValues() []string { return []string{string(Low), string(High)} }

type Health struct {
	Status string `json:"status"`
}

type CreateItem struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Priority Priority `json:"priority,omitempty" validate:"omitempty,oneof=low high"`
	Tags     []string `json:"tags,omitempty" description:"Free-form labels"`
}

type UpdateItem struct {
	ID string `path:"id" validate:"required"`
	CreateItem
}

type ItemRef struct {
	ID string `path:"id" validate:"required"`
}

type ListItems struct {
	Tag   string `query:"tag"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type AddTag struct {
	ID  string `path:"id" validate:"required"`
	Tag string `json:"tag" validate:"required"`
}

type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Priority  Priority  `json:"priority,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ItemList struct {
	Items []Item `json:"items"`
}

type store struct {
	mu     sync.Mutex
	nextID int
	items  map[string]Item
	now    func() time.Time
}

func newStore() *store {
	return &store{items: map[string]Item{}, now: time.Now}
}

func newApp(s *store, opts ...gwapp.Option) *gwapp.App {
	app := gwapp.New(opts...)

	gwapp.Handle(app, gwroute.GET, "/health", s.health,
		gwapp.Name("Health"), gwapp.APIKey(gwroute.KeyNotRequired))
	gwapp.Handle(app, gwroute.GET, "/items", s.list,
		gwapp.Name("ListItems"), gwapp.Tags("items"))
	gwapp.Handle(app, gwroute.POST, "/items", s.create,
		gwapp.Name("CreateItem"), gwapp.Tags("items"), gwapp.Summary("Create an item"))
	gwapp.Handle(app, gwroute.GET, "/items/{id}", s.get,
		gwapp.Name("GetItem"), gwapp.Tags("items"))
	gwapp.Handle(app, gwroute.PUT, "/items/{id}", s.update,
		gwapp.Name("UpdateItem"), gwapp.Tags("items"))
	gwapp.Handle(app, gwroute.DELETE, "/items/{id}", s.delete,
		gwapp.Name("DeleteItem"), gwapp.Tags("items"))
	gwapp.Handle(app, gwroute.POST, "/items/{id}/tags", s.addTag,
		gwapp.Name("AddTag"), gwapp.Tags("items", "tags"))

	return app
}

func (s *store) health(context.Context, gwapp.Empty) (Health, error) {
	return Health{Status: "ok"}, nil
}

func (s *store) list(_ context.Context, req ListItems) (ItemList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ItemList{Items: []Item{}}
	for _, it := range s.items {
		if req.Tag != "" && !slices.Contains(it.Tags, req.Tag) {
			continue
		}
		out.Items = append(out.Items, it)
	}
	slices.SortFunc(out.Items, func(a, b Item) int { return strings.Compare(a.ID, b.ID) })

	if req.Limit > 0 && len(out.Items) > req.Limit {
		out.Items = out.Items[:req.Limit]
	}
	return out, nil
}

func (s *store) create(_ context.Context, req CreateItem) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	it := Item{
		ID:        strconv.Itoa(s.nextID),
		Name:      req.Name,
		Priority:  req.Priority,
		Tags:      slices.Clone(req.Tags),
		CreatedAt: s.now().UTC(),
	}
	s.items[it.ID] = it
	return it, nil
}

func (s *store) get(_ context.Context, req ItemRef) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[req.ID]
	if !ok {
		return Item{}, gwapp.NotFound("item %s not found", req.ID)
	}
	return it, nil
}

func (s *store) update(_ context.Context, req UpdateItem) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[req.ID]
	if !ok {
		return Item{}, gwapp.NotFound("item %s not found", req.ID)
	}
	it.Name, it.Priority, it.Tags = req.Name, req.Priority, slices.Clone(req.Tags)
	s.items[it.ID] = it
	return it, nil
}

func (s *store) delete(_ context.Context, req ItemRef) (gwapp.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[req.ID]; !ok {
		return gwapp.Empty{}, gwapp.NotFound("item %s not found", req.ID)
	}
	delete(s.items, req.ID)
	return gwapp.Empty{}, nil
}

func (s *store) addTag(_ context.Context, req AddTag) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[req.ID]
	if !ok {
		return Item{}, gwapp.NotFound("item %s not found", req.ID)
	}
	if !slices.Contains(it.Tags, req.Tag) {
		it.Tags = append(slices.Clone(it.Tags), req.Tag)
	}
	s.items[it.ID] = it
	return it, nil
}
