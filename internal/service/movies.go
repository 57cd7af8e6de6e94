package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/liliang-cn/movieflux/internal/data"
	"github.com/liliang-cn/movieflux/internal/validator"
)

// MovieStore 电影记录的持久化接口，data.MovieModel 是它的数据库实现
type MovieStore interface {
	Insert(ctx context.Context, movie *data.Movie) error
	InsertBatch(ctx context.Context, movies []*data.Movie) ([]*data.Movie, error)
	Get(ctx context.Context, id int64) (*data.Movie, error)
	GetByTitle(ctx context.Context, title string) (*data.Movie, error)
	GetAll(ctx context.Context, filters data.Filters) ([]*data.Movie, error)
	Update(ctx context.Context, movie *data.Movie) error
	Delete(ctx context.Context, id int64) error
}

// Movies 电影相关的业务规则
type Movies struct {
	store MovieStore
}

func NewMovies(store MovieStore) *Movies {
	return &Movies{store: store}
}

// ListAll 返回全部电影，filters 未通过校验时返回 *ValidationError
func (s *Movies) ListAll(ctx context.Context, filters data.Filters) ([]*data.Movie, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	return s.store.GetAll(ctx, filters)
}

// GetByID 找不到时返回 ErrMovieNotFound
func (s *Movies) GetByID(ctx context.Context, id int64) (*data.Movie, error) {
	movie, err := s.store.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			return nil, ErrMovieNotFound
		default:
			return nil, err
		}
	}

	return movie, nil
}

// GetByTitle 按标题精确查找，找不到时返回 nil 和 nil
func (s *Movies) GetByTitle(ctx context.Context, title string) (*data.Movie, error) {
	movie, err := s.store.GetByTitle(ctx, title)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			return nil, nil
		default:
			return nil, err
		}
	}

	return movie, nil
}

// Create 校验标题后保存，返回带有生成 id 的记录
func (s *Movies) Create(ctx context.Context, movie *data.Movie) (*data.Movie, error) {
	v := validator.New()
	if data.ValidateMovie(v, movie); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	saved := &data.Movie{Title: movie.Title}

	err := s.store.Insert(ctx, saved)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// CreateBatch 一次性保存全部电影，然后按顺序逐条校验保存结果。
// 遇到第一条无效标题时停止，返回它之前已通过校验的记录和 *ValidationError；
// 已保存的记录不会回滚。
func (s *Movies) CreateBatch(ctx context.Context, movies []*data.Movie) ([]*data.Movie, error) {
	if len(movies) == 0 {
		return []*data.Movie{}, nil
	}

	saved, err := s.store.InsertBatch(ctx, movies)
	if err != nil {
		return nil, err
	}

	emitted := make([]*data.Movie, 0, len(saved))
	for i, movie := range saved {
		v := validator.New()
		if data.ValidateMovie(v, movie); !v.Valid() {
			return emitted, &ValidationError{Errors: map[string]string{
				fmt.Sprintf("movies[%d].title", i): v.Errors["title"],
			}}
		}

		emitted = append(emitted, movie)
	}

	return emitted, nil
}

// Update 用 movie 的内容整体替换 id 对应的记录
func (s *Movies) Update(ctx context.Context, id int64, movie *data.Movie) error {
	v := validator.New()
	if data.ValidateMovie(v, movie); !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.store.Update(ctx, &data.Movie{ID: id, Title: movie.Title})
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			return ErrMovieNotFound
		default:
			return err
		}
	}

	return nil
}

// Delete 记录不存在时返回 ErrMovieNotFound
func (s *Movies) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			return ErrMovieNotFound
		default:
			return err
		}
	}

	return nil
}
