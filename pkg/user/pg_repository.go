package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository is the Postgres-backed Repository implementation.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a repository on an existing connection pool.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const userColumns = `user_id, user_email, user_pw, role, user_name, alias, phone_num`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Name, &u.Alias, &u.Phone)
	return u, err
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound{Email: email}
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound{Email: id.String()}
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PgRepository) Create(ctx context.Context, u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.Password, u.Role, u.Name, u.Alias, u.Phone)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on user_email
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailAlreadyExists{Email: u.Email}
		}
		return User{}, err
	}
	return u, nil
}

func (r *PgRepository) Update(ctx context.Context, u User) (User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET user_pw = $2, role = $3, user_name = $4, alias = $5, phone_num = $6
		 WHERE user_id = $1`,
		u.ID, u.Password, u.Role, u.Name, u.Alias, u.Phone)
	if err != nil {
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound{Email: u.Email}
	}
	return u, nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	return err
}
