package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/domain/repository"
	"unihealth-admin/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newMockDB returns a gorm handle whose transactions are checked by sqlmock.
// Repositories in these tests are in-memory, so only BEGIN/COMMIT/ROLLBACK reach it.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func testPrincipal(role entity.UserRole) entity.Principal {
	return entity.Principal{
		UserID:    uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		SessionID: "session-1",
		Role:      role,
	}
}

var errSessionWrite = errors.New("session write failed")

// memorySessionStore round-trips sessions through JSON like the Redis store does.
// failWrites makes that many upcoming Update calls fail after fn ran, as a
// Redis SET error would.
type memorySessionStore struct {
	mu         sync.Mutex
	sessions   map[string][]byte
	failWrites int
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string][]byte{}}
}

func (s *memorySessionStore) Find(ctx context.Context, sessionID string) (*service.ConsoleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(sessionID)
}

func (s *memorySessionStore) Update(ctx context.Context, sessionID string, fn func(session *service.ConsoleSession) error) (*service.ConsoleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &service.ConsoleSession{}
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if s.failWrites > 0 {
		s.failWrites--
		return nil, errSessionWrite
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	s.sessions[sessionID] = raw
	return session, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *memorySessionStore) Stop() {}

func (s *memorySessionStore) load(sessionID string) (*service.ConsoleSession, error) {
	raw, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	var session service.ConsoleSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type auditEntry struct {
	Action   string
	EntityID string
	Old      interface{}
	New      interface{}
}

type recordingAuditService struct {
	entries []auditEntry
}

func (s *recordingAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{Action: action, EntityID: entityID, New: newValue})
	return nil
}

func (s *recordingAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	s.entries = append(s.entries, auditEntry{Action: action, EntityID: entityID, Old: oldValue, New: newValue})
	return nil
}

func (s *recordingAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	s.entries = append(s.entries, auditEntry{Action: action, EntityID: entityID, Old: oldValue})
	return nil
}

func (s *recordingAuditService) LogEvent(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, details entity.JSON) error {
	s.entries = append(s.entries, auditEntry{Action: action, New: details})
	return nil
}

func (s *recordingAuditService) actions() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Action
	}
	return out
}

type memoryDoctorRepo struct {
	doctors map[uuid.UUID]entity.DoctorProfile
}

func (r *memoryDoctorRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	d, ok := r.doctors[userID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

type memoryAffiliationRepo struct {
	rows map[uuid.UUID]entity.ClinicAffiliation
}

func newMemoryAffiliationRepo(rows ...entity.ClinicAffiliation) *memoryAffiliationRepo {
	r := &memoryAffiliationRepo{rows: map[uuid.UUID]entity.ClinicAffiliation{}}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *memoryAffiliationRepo) Create(ctx context.Context, db *gorm.DB, a *entity.ClinicAffiliation) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.rows[a.ID] = *a
	return nil
}

func (r *memoryAffiliationRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.ClinicAffiliation, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memoryAffiliationRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.ClinicAffiliation, error) {
	var out []entity.ClinicAffiliation
	for _, a := range r.rows {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryAffiliationRepo) Update(ctx context.Context, db *gorm.DB, a *entity.ClinicAffiliation) error {
	r.rows[a.ID] = *a
	return nil
}

func (r *memoryAffiliationRepo) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

type memorySystemSettingRepo struct {
	rows map[string]entity.SystemSetting
}

func (r *memorySystemSettingRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.SystemSetting, error) {
	var out []entity.SystemSetting
	for _, s := range r.rows {
		out = append(out, s)
	}
	return out, nil
}

func (r *memorySystemSettingRepo) FindByKeys(ctx context.Context, db *gorm.DB, keys []string) ([]entity.SystemSetting, error) {
	var out []entity.SystemSetting
	for _, k := range keys {
		if s, ok := r.rows[k]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySystemSettingRepo) Save(ctx context.Context, db *gorm.DB, s *entity.SystemSetting) error {
	r.rows[s.Key] = *s
	return nil
}

type memoryMedicalServiceRepo struct {
	rows map[uuid.UUID]entity.MedicalService
}

func (r *memoryMedicalServiceRepo) Create(ctx context.Context, db *gorm.DB, s *entity.MedicalService) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *memoryMedicalServiceRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.MedicalService, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memoryMedicalServiceRepo) FindAll(ctx context.Context, db *gorm.DB, specialty string) ([]entity.MedicalService, error) {
	var out []entity.MedicalService
	for _, s := range r.rows {
		if specialty == "" || s.Specialty == specialty {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryMedicalServiceRepo) Update(ctx context.Context, db *gorm.DB, s *entity.MedicalService) error {
	r.rows[s.ID] = *s
	return nil
}

func (r *memoryMedicalServiceRepo) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	delete(r.rows, id)
	return 1, nil
}

type memoryUserRepo struct {
	rows map[uuid.UUID]entity.User
}

func newMemoryUserRepo(users ...entity.User) *memoryUserRepo {
	r := &memoryUserRepo{rows: map[uuid.UUID]entity.User{}}
	for _, u := range users {
		r.rows[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.rows[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memoryUserRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.rows {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUserRepo) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.rows[user.ID] = *user
	return nil
}

// seededRoleRepo holds the three roles the migrations insert
type seededRoleRepo struct{}

func (seededRoleRepo) FindByUserRole(ctx context.Context, db *gorm.DB, role entity.UserRole) (*entity.Role, error) {
	if !role.Valid() {
		return nil, nil
	}
	return &entity.Role{ID: role.ID(), RoleName: role.String()}, nil
}

func (seededRoleRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error) {
	var out []entity.Role
	for _, role := range entity.UserRoles() {
		out = append(out, entity.Role{ID: role.ID(), RoleName: role.String()})
	}
	return out, nil
}

type memoryClinicSettingRepo struct {
	rows map[string]entity.ClinicSetting
}

func (r *memoryClinicSettingRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.ClinicSetting, error) {
	var out []entity.ClinicSetting
	for _, c := range r.rows {
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryClinicSettingRepo) FindByClinicName(ctx context.Context, db *gorm.DB, clinicName string) (*entity.ClinicSetting, error) {
	c, ok := r.rows[clinicName]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memoryClinicSettingRepo) Save(ctx context.Context, db *gorm.DB, setting *entity.ClinicSetting) error {
	if setting.ID == uuid.Nil {
		setting.ID = uuid.New()
	}
	r.rows[setting.ClinicName] = *setting
	return nil
}

type memoryAuditLogRepo struct {
	logs       []entity.AuditLog
	lastFilter repository.AuditLogFilter
}

func (r *memoryAuditLogRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memoryAuditLogRepo) FindAll(ctx context.Context, db *gorm.DB, filter repository.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	r.lastFilter = filter

	var matched []entity.AuditLog
	for _, l := range r.logs {
		if filter.Action == "" || l.Action == filter.Action {
			matched = append(matched, l)
		}
	}
	total := int64(len(matched))

	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *memoryAuditLogRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

// memoryTokenStore keeps token keys in a map; expirations are ignored
type memoryTokenStore struct {
	keys map[string]interface{}
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{keys: map[string]interface{}{}}
}

func (s *memoryTokenStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	s.keys[key] = value
	return redis.NewStatusResult("OK", nil)
}

func (s *memoryTokenStore) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := s.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (s *memoryTokenStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := s.keys[k]; ok {
			delete(s.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

var (
	_ service.ConsoleSessionStore            = (*memorySessionStore)(nil)
	_ service.AuditService                   = (*recordingAuditService)(nil)
	_ repository.DoctorProfileRepository     = (*memoryDoctorRepo)(nil)
	_ repository.ClinicAffiliationRepository = (*memoryAffiliationRepo)(nil)
	_ repository.SystemSettingRepository     = (*memorySystemSettingRepo)(nil)
	_ repository.MedicalServiceRepository    = (*memoryMedicalServiceRepo)(nil)
	_ repository.UserRepository              = (*memoryUserRepo)(nil)
	_ repository.RoleRepository              = seededRoleRepo{}
	_ repository.ClinicSettingRepository     = (*memoryClinicSettingRepo)(nil)
	_ repository.AuditLogRepository          = (*memoryAuditLogRepo)(nil)
	_ TokenStore                             = (*memoryTokenStore)(nil)
)
