package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/user"
)

const userColumns = "id, email, password_hash, rol, profesor_id, estudiante_id, created_at, last_login"

type userRow struct {
	ID           int       `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	Rol          string    `db:"rol"`
	ProfesorID   null.Int  `db:"profesor_id"`
	EstudianteID null.Int  `db:"estudiante_id"`
	CreatedAt    time.Time `db:"created_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (r userRow) toUser() user.User {
	usr := user.User{
		ID:           r.ID,
		Email:        r.Email,
		Role:         r.Rol,
		TeacherID:    r.ProfesorID,
		StudentID:    r.EstudianteID,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		LastLogin:    r.LastLogin,
	}
	if usr.LastLogin.Valid {
		usr.LastLogin.Time = usr.LastLogin.Time.UTC()
	}
	return usr
}

type userRepository struct {
	db core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DBExecutor) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) QueryUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM usuario ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo *userRepository) GetUser(ctx context.Context, id int) (user.User, error) {
	var r userRow
	if err := repo.db.GetContext(ctx, &r, "SELECT "+userColumns+" FROM usuario WHERE id = $1", id); err != nil {
		return user.User{}, trapNoRowsErr(err, "user", id, "finding user by ID")
	}
	return r.toUser(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var r userRow
	if err := repo.db.GetContext(ctx, &r, "SELECT "+userColumns+" FROM usuario WHERE email = $1", email); err != nil {
		return user.User{}, trapNoRowsErr(err, "user", 0, "finding user by email")
	}
	return r.toUser(), nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.QueryRowContext(ctx, `
		INSERT INTO usuario (email, password_hash, rol, profesor_id, estudiante_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		usr.Email, usr.PasswordHash, usr.Role, usr.TeacherID, usr.StudentID, usr.CreatedAt.UTC(),
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, trapConstraintErr(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) SetUserLastLogin(ctx context.Context, id int, at time.Time) error {
	res, err := repo.db.ExecContext(ctx, "UPDATE usuario SET last_login = $1 WHERE id = $2", at.UTC(), id)
	if err != nil {
		return errors.Wrap(err, "updating user last_login")
	}
	return checkAffected(res, "user", id)
}

func (repo *userRepository) SetUserPassword(ctx context.Context, id int, hash []byte) error {
	res, err := repo.db.ExecContext(ctx, "UPDATE usuario SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return errors.Wrap(err, "updating user password")
	}
	return checkAffected(res, "user", id)
}

func (repo *userRepository) DeleteUser(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM usuario WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return checkAffected(res, "user", id)
}
