package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/soundstore/soundstore/internal/auth"
	"github.com/soundstore/soundstore/internal/models"
	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/fault"
	"github.com/soundstore/soundstore/pkg/pagination"
	"github.com/soundstore/soundstore/pkg/uow"
)

type AddUserRequest struct {
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	PhoneNumber *string    `json:"phoneNumber"`
	Address     *string    `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Role        string     `json:"role"`
}

type RegisterRequest struct {
	FirstName       *string    `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirmPassword"`
	PhoneNumber     *string    `json:"phoneNumber"`
	Address         *string    `json:"address"`
	DateOfBirth     *time.Time `json:"dateOfBirth"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phoneNumber"`
	Address     *string    `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
}

// UserService manages accounts, registration and login.
type UserService struct {
	db     *builder.DB
	log    *logrus.Logger
	tokens *auth.TokenService
}

func NewUserService(db *builder.DB, log *logrus.Logger, tokens *auth.TokenService) *UserService {
	return &UserService{db: db, log: log, tokens: tokens}
}

// AddUser creates an account with an explicit role. Emails are unique
// case-insensitively.
func (s *UserService) AddUser(ctx context.Context, req AddUserRequest) (string, error) {
	if req.Role != models.RoleAdmin && req.Role != models.RoleCustomer {
		return "", logFail(s.log, "add user",
			fault.Invalid("%q is not a valid role", req.Role))
	}

	dup, err := builder.Select[models.AppUser](s.db).
		Where(builder.EqFold("email", req.Email)).
		Exists(ctx)
	if err != nil {
		return "", logFail(s.log, "add user", err)
	}
	if dup {
		return "", logFail(s.log, "add user",
			fault.Duplicated("email %s is already registered", req.Email))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", logFail(s.log, "add user", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.AppUser](u)
	if err != nil {
		return "", logFail(s.log, "add user", err)
	}

	now := time.Now()
	id := uuid.NewString()
	repo.Add(models.AppUser{
		ID:           id,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		DateOfBirth:  req.DateOfBirth,
		Role:         req.Role,
		Status:       models.Active,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	})

	if _, err := u.Save(ctx); err != nil {
		return "", logFail(s.log, "add user", err)
	}
	return id, nil
}

// RegisterUser is self-service signup; the account is always a customer.
func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Password != req.ConfirmPassword {
		return "", logFail(s.log, "register user",
			fault.Invalid("passwords do not match"))
	}

	return s.AddUser(ctx, AddUserRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
		Role:        models.RoleCustomer,
	})
}

// Login checks credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := builder.Select[models.AppUser](s.db).
		Where(builder.EqFold("email", req.Email)).
		First(ctx)
	if err != nil {
		return "", logFail(s.log, "login",
			notFoundOr(err, "user with email %s was not found", req.Email))
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return "", logFail(s.log, "login", fault.Unauthorized("incorrect password"))
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", logFail(s.log, "login", err)
	}
	return token, nil
}

// GetUserInfoBasedOnToken resolves the calling user from the sid claim.
func (s *UserService) GetUserInfoBasedOnToken(ctx context.Context) (*UserResponse, error) {
	userID := auth.GetClaim(ctx, auth.ClaimSid)
	if userID == "" {
		return nil, logFail(s.log, "get user info",
			fault.Unauthorized("no user identity in request"))
	}

	user, err := builder.Select[models.AppUser](s.db).
		Where(builder.Eq("id", userID)).
		First(ctx)
	if err != nil {
		return nil, logFail(s.log, "get user info",
			notFoundOr(err, "user %s was not found", userID))
	}
	return toUserResponse(user), nil
}

// GetCustomer returns one customer account.
func (s *UserService) GetCustomer(ctx context.Context, id string) (*UserResponse, error) {
	user, err := builder.Select[models.AppUser](s.db).
		Where(builder.Eq("id", id)).
		Where(builder.Eq("role", models.RoleCustomer)).
		First(ctx)
	if err != nil {
		return nil, logFail(s.log, "get customer",
			notFoundOr(err, "customer %s was not found", id))
	}
	return toUserResponse(user), nil
}

// GetCustomers returns a page of customer accounts, optionally matching
// a name fragment against first or last name.
func (s *UserService) GetCustomers(ctx context.Context, name string, pageNumber, pageSize int) (pagination.Page[UserResponse], error) {
	var empty pagination.Page[UserResponse]

	q := builder.Select[models.AppUser](s.db).
		Where(builder.Eq("role", models.RoleCustomer)).
		OrderByAsc("email")
	if name != "" {
		pattern := "%" + name + "%"
		q.Where(builder.Group(
			builder.ILike("first_name", pattern),
			builder.Or(builder.ILike("last_name", pattern)),
		))
	}

	page, err := pagination.Paginate(ctx, q, pageNumber, pageSize)
	if err != nil {
		return empty, logFail(s.log, "get customers", err)
	}
	if page.TotalItems == 0 {
		return empty, logFail(s.log, "get customers", fault.NoData("no customers found"))
	}

	items := make([]UserResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toUserResponse(&page.Items[i]))
	}
	return mapPage(page, items), nil
}

// UpdateStatus moves an account between lifecycle states. An unknown
// state leaves the stored value untouched.
func (s *UserService) UpdateStatus(ctx context.Context, id string, status string) error {
	parsed, err := models.ParseUserState(status)
	if err != nil {
		return logFail(s.log, "update user status", err)
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return logFail(s.log, "update user status", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.AppUser](u)
	if err != nil {
		return logFail(s.log, "update user status", err)
	}

	now := time.Now()
	user.Status = parsed
	user.UpdatedAt = &now
	repo.Update(*user)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "update user status", err)
	}
	return nil
}

// DeleteUser removes an account unless it still owns orders or
// transactions. The account's ratings go with it.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return logFail(s.log, "delete user", err)
	}

	hasOrders, err := builder.Select[models.Order](s.db).
		Where(builder.Eq("user_id", id)).
		Exists(ctx)
	if err != nil {
		return logFail(s.log, "delete user", err)
	}
	if hasOrders {
		return logFail(s.log, "delete user",
			fault.Conflict("user %s has existing orders", id))
	}

	hasTransactions, err := builder.Select[models.Transaction](s.db).
		Where(builder.Eq("user_id", id)).
		Exists(ctx)
	if err != nil {
		return logFail(s.log, "delete user", err)
	}
	if hasTransactions {
		return logFail(s.log, "delete user",
			fault.Conflict("user %s has existing transactions", id))
	}

	ratings, err := builder.Select[models.Rating](s.db).
		Where(builder.Eq("user_id", id)).
		All(ctx)
	if err != nil {
		return logFail(s.log, "delete user", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	ratingRepo, err := uow.Repo[models.Rating](u)
	if err != nil {
		return logFail(s.log, "delete user", err)
	}
	ratingRepo.DeleteRange(ratings...)

	userRepo, err := uow.Repo[models.AppUser](u)
	if err != nil {
		return logFail(s.log, "delete user", err)
	}
	userRepo.Delete(*user)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "delete user", err)
	}
	return nil
}

func (s *UserService) findUser(ctx context.Context, id string) (*models.AppUser, error) {
	user, err := builder.Select[models.AppUser](s.db).
		Where(builder.Eq("id", id)).
		First(ctx)
	if err != nil {
		return nil, notFoundOr(err, "user %s was not found", id)
	}
	return user, nil
}

func toUserResponse(user *models.AppUser) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		DateOfBirth: user.DateOfBirth,
		Role:        user.Role,
		Status:      user.Status.String(),
	}
}
