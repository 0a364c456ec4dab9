package usecase

import (
	"context"
	"testing"
	"time"

	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser_HashesPasswordAndAudits(t *testing.T) {
	db, mock := newMockDB(t)
	users := newMemoryUserRepo()
	audit := &recordingAuditService{}
	uc := NewUserManagementUsecase(db, quietLogger(), users, seededRoleRepo{}, audit, newMemorySessionStore())

	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := uc.CreateUser(context.Background(), testPrincipal(entity.RoleSuperadmin), &dto.CreateUserRequest{
		Email:    "clinic@unihealth.test",
		Password: "s3cret-pass",
		FullName: "Clinic Admin",
		Role:     "clinic_admin",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Equal(t, "clinic_admin", res.Role)
	require.True(t, res.IsActive)

	stored := users.rows[res.ID]
	require.Equal(t, entity.RoleIDClinicAdmin, stored.RoleID)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
	require.Equal(t, []string{entity.AuditActionUserCreate}, audit.actions())
}

func TestCreateUser_InvalidRoleRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	users := newMemoryUserRepo()
	uc := NewUserManagementUsecase(db, quietLogger(), users, seededRoleRepo{}, &recordingAuditService{}, newMemorySessionStore())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := uc.CreateUser(context.Background(), testPrincipal(entity.RoleSuperadmin), &dto.CreateUserRequest{
		Email:    "x@unihealth.test",
		Password: "s3cret-pass",
		FullName: "Someone",
		Role:     "doctor",
	})
	require.ErrorIs(t, err, ErrInvalidRole)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Empty(t, users.rows)
}

func TestChangeRole(t *testing.T) {
	target := entity.User{ID: uuid.New(), Email: "a@unihealth.test", RoleID: entity.RoleIDAdmin}

	t.Run("own account", func(t *testing.T) {
		db, mock := newMockDB(t)
		p := testPrincipal(entity.RoleSuperadmin)
		self := entity.User{ID: p.UserID, RoleID: entity.RoleIDSuperadmin}
		uc := NewUserManagementUsecase(db, quietLogger(), newMemoryUserRepo(self), seededRoleRepo{}, &recordingAuditService{}, newMemorySessionStore())

		_, err := uc.ChangeRole(context.Background(), p, self.ID, &dto.ChangeUserRoleRequest{Role: "admin"})
		require.ErrorIs(t, err, ErrCannotDemoteSelf)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		db, mock := newMockDB(t)
		uc := NewUserManagementUsecase(db, quietLogger(), newMemoryUserRepo(), seededRoleRepo{}, &recordingAuditService{}, newMemorySessionStore())

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := uc.ChangeRole(context.Background(), testPrincipal(entity.RoleSuperadmin), uuid.New(), &dto.ChangeUserRoleRequest{Role: "admin"})
		require.ErrorIs(t, err, ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("promote", func(t *testing.T) {
		db, mock := newMockDB(t)
		users := newMemoryUserRepo(target)
		audit := &recordingAuditService{}
		uc := NewUserManagementUsecase(db, quietLogger(), users, seededRoleRepo{}, audit, newMemorySessionStore())

		mock.ExpectBegin()
		mock.ExpectCommit()

		res, err := uc.ChangeRole(context.Background(), testPrincipal(entity.RoleSuperadmin), target.ID, &dto.ChangeUserRoleRequest{Role: "superadmin"})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
		require.Equal(t, "superadmin", res.Role)
		require.Equal(t, entity.RoleIDSuperadmin, users.rows[target.ID].RoleID)

		require.Len(t, audit.entries, 1)
		require.Equal(t, map[string]string{"role": "admin"}, audit.entries[0].Old)
		require.Equal(t, map[string]string{"role": "superadmin"}, audit.entries[0].New)
	})
}

func TestChangeStatus_DeactivatesUser(t *testing.T) {
	target := entity.User{ID: uuid.New(), Email: "a@unihealth.test", RoleID: entity.RoleIDAdmin}
	db, mock := newMockDB(t)
	users := newMemoryUserRepo(target)
	audit := &recordingAuditService{}
	uc := NewUserManagementUsecase(db, quietLogger(), users, seededRoleRepo{}, audit, newMemorySessionStore())

	mock.ExpectBegin()
	mock.ExpectCommit()

	inactive := false
	res, err := uc.ChangeStatus(context.Background(), testPrincipal(entity.RoleSuperadmin), target.ID, &dto.ChangeUserStatusRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.False(t, res.IsActive)

	stored := users.rows[target.ID]
	require.False(t, stored.Active())
	require.Equal(t, map[string]bool{"is_active": true}, audit.entries[0].Old)
}

func TestListUsers_IncludesRoles(t *testing.T) {
	db, _ := newMockDB(t)
	users := newMemoryUserRepo(entity.User{ID: uuid.New(), Email: "a@unihealth.test", RoleID: entity.RoleIDAdmin})
	uc := NewUserManagementUsecase(db, quietLogger(), users, seededRoleRepo{}, &recordingAuditService{}, newMemorySessionStore())

	res, err := uc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	require.Equal(t, "admin", res.Users[0].Role)

	var names []string
	for _, r := range res.Roles {
		names = append(names, r.Name)
	}
	require.Equal(t, []string{"superadmin", "admin", "clinic_admin"}, names)
}

func TestUpsertClinic_CreatesThenUpdates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &memoryClinicSettingRepo{rows: map[string]entity.ClinicSetting{}}
	audit := &recordingAuditService{}
	uc := NewClinicSettingsUsecase(db, quietLogger(), repo, audit, newMemorySessionStore())
	ctx := context.Background()
	p := testPrincipal(entity.RoleClinicAdmin)

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := uc.UpsertClinic(ctx, p, "  North Clinic ", &dto.UpsertClinicSettingRequest{
		OpeningHours:      "08:00-17:00",
		BookingWindowDays: 30,
	})
	require.NoError(t, err)
	require.Equal(t, "North Clinic", created.ClinicName)
	require.Nil(t, audit.entries[0].Old)

	mock.ExpectBegin()
	mock.ExpectCommit()
	updated, err := uc.UpsertClinic(ctx, p, "North Clinic", &dto.UpsertClinicSettingRequest{
		OpeningHours:         "07:00-19:00",
		BookingWindowDays:    14,
		MaxDailyAppointments: 80,
		AcceptsWalkIns:       true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, created.ID, updated.ID)
	require.Len(t, repo.rows, 1)
	require.True(t, repo.rows["North Clinic"].AcceptsWalkIns)

	require.Len(t, audit.entries, 2)
	old, ok := audit.entries[1].Old.(*dto.ClinicSettingResponse)
	require.True(t, ok)
	require.Equal(t, "08:00-17:00", old.OpeningHours)
}

func TestUpsertClinic_BlankName(t *testing.T) {
	db, mock := newMockDB(t)
	uc := NewClinicSettingsUsecase(db, quietLogger(), &memoryClinicSettingRepo{rows: map[string]entity.ClinicSetting{}}, &recordingAuditService{}, newMemorySessionStore())

	_, err := uc.UpsertClinic(context.Background(), testPrincipal(entity.RoleAdmin), "   ", &dto.UpsertClinicSettingRequest{BookingWindowDays: 7})
	require.ErrorIs(t, err, ErrClinicNameRequired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func seedAuditLogs(n int, action string) *memoryAuditLogRepo {
	repo := &memoryAuditLogRepo{}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		repo.Create(context.Background(), nil, &entity.AuditLog{Action: action, CreatedAt: start.Add(time.Duration(i) * time.Minute)})
	}
	return repo
}

func TestGetAllAuditLogs_NormalizesPaging(t *testing.T) {
	db, _ := newMockDB(t)
	repo := seedAuditLogs(25, entity.AuditActionUserLogin)
	uc := NewAuditLogUsecase(db, quietLogger(), repo, &recordingAuditService{})

	res, err := uc.GetAllAuditLogs(context.Background(), "", 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(25), res.Total)
	require.Len(t, res.Logs, 20)
	require.Equal(t, 0, repo.lastFilter.Offset)

	res, err = uc.GetAllAuditLogs(context.Background(), "", 2, 500)
	require.NoError(t, err)
	require.Equal(t, 100, repo.lastFilter.Limit)
	require.Equal(t, 100, repo.lastFilter.Offset)
	require.Empty(t, res.Logs)

	res, err = uc.GetAllAuditLogs(context.Background(), entity.AuditActionUserLogout, 1, 10)
	require.NoError(t, err)
	require.Zero(t, res.Total)
}

func TestGetAuditLog_NotFound(t *testing.T) {
	db, _ := newMockDB(t)
	uc := NewAuditLogUsecase(db, quietLogger(), seedAuditLogs(1, entity.AuditActionUserLogin), &recordingAuditService{})

	res, err := uc.GetAuditLog(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Signed in", res.Label)

	_, err = uc.GetAuditLog(context.Background(), 42)
	require.ErrorIs(t, err, ErrAuditLogNotFound)
}

func TestExportAuditLogs_RecordsExport(t *testing.T) {
	db, _ := newMockDB(t)
	repo := seedAuditLogs(3, entity.AuditActionSettingsUpdate)
	audit := &recordingAuditService{}
	uc := NewAuditLogUsecase(db, quietLogger(), repo, audit)

	logs, err := uc.ExportAuditLogs(context.Background(), testPrincipal(entity.RoleSuperadmin), entity.AuditActionSettingsUpdate)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.Equal(t, maxAuditLogExportRows, repo.lastFilter.Limit)

	require.Equal(t, []string{entity.AuditActionAuditLogExport}, audit.actions())
	require.Equal(t, entity.JSON{"rows": 3, "action": entity.AuditActionSettingsUpdate}, audit.entries[0].New)
}
