package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"unihealth-admin/config"
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	auth     AuthUsecase
	console  SettingsConsoleUsecase
	jwt      *jwt.JWTService
	tokens   *memoryTokenStore
	sessions *memorySessionStore
	user     entity.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := entity.User{ID: uuid.New(), Email: "admin@unihealth.test", Password: string(hash), RoleID: entity.RoleIDAdmin}

	db, _ := newMockDB(t)
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test", AccessExpiry: 15 * time.Minute, RefreshExpiry: time.Hour})
	tokens := newMemoryTokenStore()
	sessions := newMemorySessionStore()

	return &authFixture{
		auth:     NewAuthUsecase(db, quietLogger(), newMemoryUserRepo(user), &recordingAuditService{}, sessions, jwtService, tokens),
		console:  newTestConsoleUsecase(sessions, nil),
		jwt:      jwtService,
		tokens:   tokens,
		sessions: sessions,
		user:     user,
	}
}

// principal builds what the auth middleware would put in the context for access
func (f *authFixture) principal(t *testing.T, access string) entity.Principal {
	t.Helper()

	claims, err := f.jwt.ValidateToken(access)
	require.NoError(t, err)
	role, ok := entity.ParseUserRole(claims.Role)
	require.True(t, ok)
	return entity.Principal{UserID: claims.UserID, SessionID: claims.SessionID, TokenID: claims.TokenID, Role: role}
}

func (f *authFixture) login(t *testing.T) *dto.TokenResponse {
	t.Helper()

	tokens, err := f.auth.Login(context.Background(), &dto.LoginRequest{Email: f.user.Email, Password: "s3cret-pass"})
	require.NoError(t, err)
	return tokens
}

func TestRefreshToken_KeepsConsoleSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	login := f.login(t)
	before := f.principal(t, login.AccessToken)
	require.NotEmpty(t, before.SessionID)

	_, err := f.console.ReportUnsavedChanges(ctx, before, &dto.ReportUnsavedChangesRequest{Unsaved: boolPtr(true)})
	require.NoError(t, err)

	refreshed, err := f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	after := f.principal(t, refreshed.AccessToken)

	require.NotEqual(t, before.TokenID, after.TokenID)
	require.Equal(t, before.SessionID, after.SessionID)

	nav, err := f.console.SelectCategory(ctx, after, &dto.SelectCategoryRequest{CategoryID: "services"})
	require.NoError(t, err)
	require.Equal(t, "pending", nav.Outcome)
	require.Equal(t, "general", nav.Console.Active)
	require.True(t, nav.Console.HasUnsavedChanges)
}

func TestRefreshToken_RotatesRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	login := f.login(t)
	_, err := f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)

	_, err = f.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshToken_TokenWithoutSessionGetsOne(t *testing.T) {
	f := newAuthFixture(t)

	refresh, refreshID, err := f.jwt.GenerateRefreshToken(f.user.ID, f.user.Email, "admin", "")
	require.NoError(t, err)
	f.tokens.keys[fmt.Sprintf("refresh_token:%s:%s", f.user.ID, refreshID)] = "valid"

	refreshed, err := f.auth.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: refresh})
	require.NoError(t, err)
	require.NotEmpty(t, f.principal(t, refreshed.AccessToken).SessionID)
}

func TestLogin_EachLoginHasItsOwnSession(t *testing.T) {
	f := newAuthFixture(t)

	first := f.principal(t, f.login(t).AccessToken)
	second := f.principal(t, f.login(t).AccessToken)

	require.NotEqual(t, first.SessionID, second.SessionID)
}

func TestLogout_RevokesTokensAndDropsSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	login := f.login(t)
	p := f.principal(t, login.AccessToken)
	refreshClaims, err := f.jwt.ValidateToken(login.RefreshToken)
	require.NoError(t, err)

	_, err = f.console.ReportUnsavedChanges(ctx, p, &dto.ReportUnsavedChangesRequest{Unsaved: boolPtr(true)})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, p, refreshClaims.TokenID))

	require.Empty(t, f.tokens.keys)
	session, err := f.sessions.Find(ctx, p.SessionID)
	require.NoError(t, err)
	require.Nil(t, session)
}
