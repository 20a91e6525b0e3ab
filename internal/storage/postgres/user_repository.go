package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/skybi/user-service/internal/user"
)

const codeUniqueViolation = "23505"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var userColumns = []string{"user_id", "name", "age", "email", "password_hash", "roles"}

// database is the part of *pgxpool.Pool the repositories use
type database interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UserRepository implements the user.Repository interface using PostgreSQL
type UserRepository struct {
	db database
}

var _ user.Repository = (*UserRepository)(nil)

// List retrieves all users in creation order
func (repo *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").OrderBy("seq").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := repo.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		obj, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID retrieves a user by their ID
func (repo *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return repo.getOne(ctx, squirrel.Eq{"user_id": id})
}

// GetByEmail retrieves a user by their email address
func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.getOne(ctx, squirrel.Eq{"email": user.NormalizeEmail(email)})
}

// Create creates a new user
func (repo *UserRepository) Create(ctx context.Context, create *user.Create) (*user.User, error) {
	obj := &user.User{
		ID:           uuid.NewString(),
		Name:         create.Name,
		Age:          create.Age,
		Email:        user.NormalizeEmail(create.Email),
		PasswordHash: create.PasswordHash,
		Roles:        create.Roles.String(),
	}
	if create.Roles == user.EmptyRoleSet {
		obj.Roles = user.DefaultRoles
	}

	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(obj.ID, obj.Name, obj.Age, obj.Email, obj.PasswordHash, obj.Roles).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := repo.db.Exec(ctx, query, args...); err != nil {
		return nil, translateError(err)
	}
	return obj, nil
}

// Update updates an existing user
func (repo *UserRepository) Update(ctx context.Context, id string, update *user.Update) (*user.User, error) {
	if update.Empty() {
		return repo.GetByID(ctx, id)
	}

	query := psql.Update("users").Where(squirrel.Eq{"user_id": id})
	if update.Name != nil {
		query = query.Set("name", *update.Name)
	}
	if update.Age != nil {
		query = query.Set("age", *update.Age)
	}
	if update.Email != nil {
		query = query.Set("email", user.NormalizeEmail(*update.Email))
	}
	if update.PasswordHash != nil {
		query = query.Set("password_hash", *update.PasswordHash)
	}
	if update.Roles != nil {
		query = query.Set("roles", update.Roles.String())
	}

	sqlString, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	tag, err := repo.db.Exec(ctx, sqlString, args...)
	if err != nil {
		return nil, translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	// Re-fetch the user
	return repo.GetByID(ctx, id)
}

// Delete deletes a user by their ID
func (repo *UserRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("users").Where(squirrel.Eq{"user_id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = repo.db.Exec(ctx, query, args...)
	return err
}

func (repo *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	obj, err := scanUser(repo.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	obj := new(user.User)
	if err := row.Scan(&obj.ID, &obj.Name, &obj.Age, &obj.Email, &obj.PasswordHash, &obj.Roles); err != nil {
		return nil, err
	}
	return obj, nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return user.ErrEmailTaken
	}
	return err
}
