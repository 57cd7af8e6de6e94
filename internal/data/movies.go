package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/liliang-cn/movieflux/internal/validator"
)

// Movie 电影记录，ID 在持久化之前为 0
type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ValidateMovie 校验电影标题
func ValidateMovie(v *validator.Validator, movie *Movie) {
	v.Check(validator.NotBlank(movie.Title), "title", "must be provided")
	v.Check(len(movie.Title) <= 500, "title", "must not be more than 500 bytes long")
}

type MovieModel struct {
	DB *sql.DB
}

// Insert 插入一条记录，并把生成的 id 写回 movie
func (m MovieModel) Insert(ctx context.Context, movie *Movie) error {
	query := `
		INSERT INTO movies (title)
		VALUES ($1)
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return m.DB.QueryRowContext(ctx, query, movie.Title).Scan(&movie.ID)
}

// InsertBatch 在同一个事务中插入全部记录，返回持久化后的记录
func (m MovieModel) InsertBatch(ctx context.Context, movies []*Movie) ([]*Movie, error) {
	query := `
		INSERT INTO movies (title)
		VALUES ($1)
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	saved := make([]*Movie, 0, len(movies))
	for _, movie := range movies {
		row := &Movie{Title: movie.Title}

		err := stmt.QueryRowContext(ctx, row.Title).Scan(&row.ID)
		if err != nil {
			return nil, err
		}

		saved = append(saved, row)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return saved, nil
}

// Get 根据 id 查询，找不到时返回 ErrRecordNotFound
func (m MovieModel) Get(ctx context.Context, id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, title
		FROM movies
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var movie Movie

	err := m.DB.QueryRowContext(ctx, query, id).Scan(&movie.ID, &movie.Title)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &movie, nil
}

// GetByTitle 按标题精确匹配，同名时返回 id 最小的一条
func (m MovieModel) GetByTitle(ctx context.Context, title string) (*Movie, error) {
	query := `
		SELECT id, title
		FROM movies
		WHERE title = $1
		ORDER BY id
		LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var movie Movie

	err := m.DB.QueryRowContext(ctx, query, title).Scan(&movie.ID, &movie.Title)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &movie, nil
}

// GetAll 返回按 filters 排序、分页后的记录
func (m MovieModel) GetAll(ctx context.Context, filters Filters) ([]*Movie, error) {
	query := fmt.Sprintf(`
		SELECT id, title
		FROM movies
		ORDER BY %s %s, id ASC`, filters.sortColumn(), filters.sortDirection())

	args := []any{}
	if filters.paginated() {
		query += `
		LIMIT $1 OFFSET $2`
		args = append(args, filters.limit(), filters.offset())
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*Movie{}
	for rows.Next() {
		var movie Movie

		err := rows.Scan(&movie.ID, &movie.Title)
		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

// Update 整体替换 movie.ID 对应记录的标题
func (m MovieModel) Update(ctx context.Context, movie *Movie) error {
	query := `
		UPDATE movies
		SET title = $1
		WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, movie.Title, movie.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// Delete 删除记录，记录不存在时返回 ErrRecordNotFound
func (m MovieModel) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `
		DELETE FROM movies
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
