package usecase

import (
	"context"
	"errors"

	"unihealth-admin/internal/console"
	"unihealth-admin/internal/converter"
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/domain/repository"
	"unihealth-admin/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = errors.New("role must be superadmin, admin or clinic_admin")
	ErrCannotDemoteSelf = errors.New("you cannot change your own role or status")
)

// UserManagementUsecase backs the user and role management panel
type UserManagementUsecase interface {
	console.Panel
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
	CreateUser(ctx context.Context, principal entity.Principal, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	ChangeRole(ctx context.Context, principal entity.Principal, userID uuid.UUID, req *dto.ChangeUserRoleRequest) (*dto.UserResponse, error)
	ChangeStatus(ctx context.Context, principal entity.Principal, userID uuid.UUID, req *dto.ChangeUserStatusRequest) (*dto.UserResponse, error)
}

type userManagementUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	auditService service.AuditService
	sessionStore service.ConsoleSessionStore
}

func NewUserManagementUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditService service.AuditService,
	sessionStore service.ConsoleSessionStore,
) UserManagementUsecase {
	return &userManagementUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		auditService: auditService,
		sessionStore: sessionStore,
	}
}

func (u *userManagementUsecase) Render(ctx context.Context, _ console.UnsavedChangesReporter) (any, error) {
	return u.ListUsers(ctx)
}

func (u *userManagementUsecase) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	roles, err := u.roleRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find roles: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Roles: converter.RolesToResponses(roles),
	}, nil
}

func (u *userManagementUsecase) CreateUser(ctx context.Context, principal entity.Principal, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	role, err := u.findRole(ctx, tx, req.Role)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	active := true
	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		RoleID:   role.ID,
		IsActive: &active,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}
	user.Role = *role

	if err := u.auditService.LogCreate(ctx, tx, &principal.UserID, entity.AuditActionUserCreate, "user", user.ID.String(), converter.UserToResponse(user)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	markPanelSaved(ctx, u.log, u.sessionStore, principal, entity.CategoryUsers)

	return converter.UserToResponse(user), nil
}

func (u *userManagementUsecase) ChangeRole(ctx context.Context, principal entity.Principal, userID uuid.UUID, req *dto.ChangeUserRoleRequest) (*dto.UserResponse, error) {
	if userID == principal.UserID {
		return nil, ErrCannotDemoteSelf
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	role, err := u.findRole(ctx, tx, req.Role)
	if err != nil {
		return nil, err
	}

	oldRole := user.UserRole().String()
	user.RoleID = role.ID
	user.Role = *role

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to update user role: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionUserRoleChange, "user", user.ID.String(),
		map[string]string{"role": oldRole}, map[string]string{"role": role.RoleName}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	markPanelSaved(ctx, u.log, u.sessionStore, principal, entity.CategoryUsers)

	return converter.UserToResponse(user), nil
}

func (u *userManagementUsecase) ChangeStatus(ctx context.Context, principal entity.Principal, userID uuid.UUID, req *dto.ChangeUserStatusRequest) (*dto.UserResponse, error) {
	if userID == principal.UserID {
		return nil, ErrCannotDemoteSelf
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	wasActive := user.Active()
	active := *req.IsActive
	user.IsActive = &active

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to update user status: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionUserStatusChange, "user", user.ID.String(),
		map[string]bool{"is_active": wasActive}, map[string]bool{"is_active": active}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	markPanelSaved(ctx, u.log, u.sessionStore, principal, entity.CategoryUsers)

	return converter.UserToResponse(user), nil
}

func (u *userManagementUsecase) findRole(ctx context.Context, tx *gorm.DB, name string) (*entity.Role, error) {
	userRole, ok := entity.ParseUserRole(name)
	if !ok {
		return nil, ErrInvalidRole
	}

	role, err := u.roleRepo.FindByUserRole(ctx, tx, userRole)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}
