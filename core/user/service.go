package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/student"
	"github.com/liceo-app/liceo/core/teacher"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("a user with this email already exists")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		QueryUsers(ctx context.Context) ([]User, error)
		GetUser(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// CreateUser returns a *core.ConflictError when the email is taken.
		CreateUser(ctx context.Context, u User) (User, error)
		SetUserLastLogin(ctx context.Context, id int, at time.Time) error
		SetUserPassword(ctx context.Context, id int, hash []byte) error
		DeleteUser(ctx context.Context, id int) error
	}

	TeacherFinder interface {
		GetByID(ctx context.Context, id int) (teacher.Teacher, error)
	}

	StudentFinder interface {
		GetByID(ctx context.Context, id int) (student.Student, error)
	}

	Service struct {
		repo     Repository
		teachers TeacherFinder
		students StudentFinder
		validate *core.Validator
	}
)

func NewService(repo Repository, teachers TeacherFinder, students StudentFinder, validate *core.Validator) *Service {
	RegisterValidators(validate)
	return &Service{repo: repo, teachers: teachers, students: students, validate: validate}
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) checkEmailUniqueness(ctx context.Context, email string) error {
	_, err := svc.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return core.NewConflictError(ErrEmailExists.Error())
	case core.IsNotFound(err):
		return nil
	default:
		return errors.Wrap(err, "finding user by email")
	}
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	if err := svc.checkEmailUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}
	usr := User{
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: nowFunc().UTC(),
	}
	if nu.TeacherID != nil {
		if _, err := svc.teachers.GetByID(ctx, *nu.TeacherID); err != nil {
			return User{}, err
		}
		usr.TeacherID = null.IntFrom(*nu.TeacherID)
	}
	if nu.StudentID != nil {
		if _, err := svc.students.GetByID(ctx, *nu.StudentID); err != nil {
			return User{}, err
		}
		usr.StudentID = null.IntFrom(*nu.StudentID)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

// Authenticate returns the user owning email when pwd matches and records the login.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return svc.SetLastLogin(ctx, usr)
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	now := nowFunc().UTC()
	if err := svc.repo.SetUserLastLogin(ctx, usr.ID, now); err != nil {
		return User{}, errors.Wrap(err, "setting lastLogin")
	}
	usr.LastLogin = null.TimeFrom(now)
	return usr, nil
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	if err := rp.Validate(svc.validate); err != nil {
		return err
	}
	usr, err := svc.repo.GetUserByEmail(ctx, rp.Email)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.SetUserPassword(ctx, usr.ID, usr.PasswordHash)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetUser(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteUser(ctx, id)
}
