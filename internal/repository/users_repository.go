package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"codeboard/internal/models"
)

const userColumns = "id, name, leetcode_id, github_username, gfg_id, created_at, updated_at"

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) UsersRepositoryI {
	return &UsersRepository{conn: conn}
}

func (ur *UsersRepository) FindByHandle(ctx context.Context, platform models.Platform, handle string) (*models.User, error) {
	var query string
	switch platform {
	case models.PlatformLeetCode:
		query = `SELECT ` + userColumns + ` FROM users WHERE leetcode_id = $1;`
	case models.PlatformGitHub:
		query = `SELECT ` + userColumns + ` FROM users WHERE github_username = $1;`
	default:
		return nil, fmt.Errorf("unknown platform %q", platform)
	}
	return ur.scanUser(ur.conn.QueryRow(ctx, query, handle))
}

func (ur *UsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return ur.scanUser(ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id))
}

func (ur *UsersRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.LeetCodeID, &user.GitHubUsername, &user.GFGID,
		&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}
