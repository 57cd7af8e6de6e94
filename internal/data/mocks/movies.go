// Package mocks 提供测试使用的内存存储实现
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/liliang-cn/movieflux/internal/data"
)

// MovieStore 基于 map 的 service.MovieStore 实现
type MovieStore struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]data.Movie

	// Stall 不为 nil 时，每次调用都会阻塞到 Stall 关闭或 ctx 结束
	Stall chan struct{}
	// Err 不为 nil 时，所有调用都返回该错误
	Err error
}

func NewMovieStore(movies ...data.Movie) *MovieStore {
	s := &MovieStore{
		nextID: 1,
		items:  make(map[int64]data.Movie),
	}

	for _, m := range movies {
		m.ID = s.nextID
		s.nextID++
		s.items[m.ID] = m
	}

	return s
}

func (s *MovieStore) wait(ctx context.Context) error {
	if s.Stall != nil {
		select {
		case <-s.Stall:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.Err
}

func (s *MovieStore) Insert(ctx context.Context, movie *data.Movie) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	movie.ID = s.nextID
	s.nextID++
	s.items[movie.ID] = *movie

	return nil
}

func (s *MovieStore) InsertBatch(ctx context.Context, movies []*data.Movie) ([]*data.Movie, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]*data.Movie, 0, len(movies))
	for _, m := range movies {
		row := data.Movie{ID: s.nextID, Title: m.Title}
		s.nextID++
		s.items[row.ID] = row
		saved = append(saved, &row)
	}

	return saved, nil
}

func (s *MovieStore) Get(ctx context.Context, id int64) (*data.Movie, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.items[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}

	return &m, nil
}

func (s *MovieStore) GetByTitle(ctx context.Context, title string) (*data.Movie, error) {
	movies, err := s.GetAll(ctx, data.Filters{Page: 1, Sort: "id"})
	if err != nil {
		return nil, err
	}

	for _, m := range movies {
		if m.Title == title {
			return m, nil
		}
	}

	return nil, data.ErrRecordNotFound
}

func (s *MovieStore) GetAll(ctx context.Context, filters data.Filters) ([]*data.Movie, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	movies := make([]*data.Movie, 0, len(s.items))
	for _, m := range s.items {
		m := m
		movies = append(movies, &m)
	}
	s.mu.RUnlock()

	desc := strings.HasPrefix(filters.Sort, "-")
	byTitle := strings.TrimPrefix(filters.Sort, "-") == "title"

	sort.Slice(movies, func(i, j int) bool {
		a, b := movies[i], movies[j]
		if desc {
			a, b = b, a
		}
		if byTitle && a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	if filters.PageSize > 0 {
		start := (filters.Page - 1) * filters.PageSize
		if start > len(movies) {
			start = len(movies)
		}
		end := start + filters.PageSize
		if end > len(movies) {
			end = len(movies)
		}
		movies = movies[start:end]
	}

	return movies, nil
}

func (s *MovieStore) Update(ctx context.Context, movie *data.Movie) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[movie.ID]; !ok {
		return data.ErrRecordNotFound
	}
	s.items[movie.ID] = *movie

	return nil
}

func (s *MovieStore) Delete(ctx context.Context, id int64) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return data.ErrRecordNotFound
	}
	delete(s.items, id)

	return nil
}
