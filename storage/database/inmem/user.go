package inmemdb

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) QueryUsers(_ context.Context) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]user.User, 0, len(repo.db.users))
	for _, id := range sortedIDs(repo.db.users) {
		users = append(users, repo.db.users[id])
	}
	return users, nil
}

func (repo *userRepository) GetUser(_ context.Context, id int) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		return usr, nil
	}
	return user.User{}, core.NewNotFoundError("user", id)
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, core.NewNotFoundError("user")
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, other := range repo.db.users {
		if other.Email == usr.Email {
			return user.User{}, core.NewConflictError(user.ErrEmailExists.Error())
		}
	}
	if usr.TeacherID.Valid {
		if _, ok := repo.db.teachers[usr.TeacherID.Int]; !ok {
			return user.User{}, core.NewNotFoundError("teacher", usr.TeacherID.Int)
		}
	}
	if usr.StudentID.Valid {
		if _, ok := repo.db.students[usr.StudentID.Int]; !ok {
			return user.User{}, core.NewNotFoundError("student", usr.StudentID.Int)
		}
	}
	usr.ID = repo.db.nextID("usuario")
	usr.CreatedAt = usr.CreatedAt.UTC()
	repo.db.users[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) SetUserLastLogin(_ context.Context, id int, at time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.users[id]
	if !ok {
		return core.NewNotFoundError("user", id)
	}
	usr.LastLogin = null.TimeFrom(at.UTC())
	repo.db.users[id] = usr
	return nil
}

func (repo *userRepository) SetUserPassword(_ context.Context, id int, hash []byte) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.users[id]
	if !ok {
		return core.NewNotFoundError("user", id)
	}
	usr.PasswordHash = hash
	repo.db.users[id] = usr
	return nil
}

func (repo *userRepository) DeleteUser(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[id]; !ok {
		return core.NewNotFoundError("user", id)
	}
	delete(repo.db.users, id)
	return nil
}
