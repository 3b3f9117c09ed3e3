package service

import (
	"context"
	"errors"
	"time"

	"vocalis/config"
	"vocalis/internal/core"
	"vocalis/internal/database/mongodb/model"
	"vocalis/internal/database/mongodb/repository"
	"vocalis/internal/dto"
	cErr "vocalis/internal/pkg/error"
	"vocalis/internal/telemetry"
	"vocalis/utils/apikey"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type UserService struct {
	trace    *telemetry.Trace
	logger   *zap.Logger
	conf     *config.Configuration
	userRepo *repository.UserRepository
}

func NewUserService(
	trace *telemetry.Trace,
	logger *zap.Logger,
	conf *config.Configuration,
	userRepo *repository.UserRepository,
) *UserService {
	return &UserService{trace: trace, logger: logger, conf: conf, userRepo: userRepo}
}

// ValidateAPIKey 驗證 HMAC 簽章並查出呼叫者身份。
// 簽章不符、查無使用者、或帳號非 active 一律視為無效 key。
func (s *UserService) ValidateAPIKey(ctx context.Context, key string) (*core.Identity, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	var returnedError error
	defer func() { end(returnedError) }()

	if _, err := apikey.ParseAndVerifyAPIKey(key, s.conf.App.SecretKey); err != nil {
		returnedError = err
		return nil, returnedError
	}

	user, err := s.userRepo.GetByAPIKey(ctx, key)
	if err != nil {
		returnedError = err
		return nil, returnedError
	}
	if user.Status != core.StatusActive {
		returnedError = errors.New("user is not active")
		return nil, returnedError
	}

	// 最後使用時間 best-effort，不影響驗證結果
	if _, err := s.userRepo.UpdateLastSeen(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("update lastSeen failed", zap.String("userID", user.ID.Hex()), zap.Error(err))
	}

	return &core.Identity{UserID: user.ID, Plan: user.Plan, Role: user.Role}, nil
}

// Register 建立使用者並簽發 API Key（管理端）。
// Key 只在這裡回傳一次，之後只能重新簽發。
func (s *UserService) Register(ctx context.Context, in *dto.CreateUserDto) (*dto.UserResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	role := in.Role
	if role == "" {
		role = core.RoleUser
	}

	userID := primitive.NewObjectID()
	key, err := apikey.GenerateAPIKey(userID.Hex(), s.conf.App.SecretKey)
	if err != nil {
		return nil, cErr.InternalServer("generate api key failed")
	}

	user := &model.User{
		ID:          userID,
		DisplayName: in.DisplayName,
		Email:       in.Email,
		APIKey:      key,
		Plan:        in.Plan,
		Role:        role,
		Status:      core.StatusActive,
	}
	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, cErr.DatabaseError("database Register error")
	}

	resp := modelToUserResponseDto(created)
	resp.APIKey = created.APIKey
	return resp, nil
}

// GetUserByID 依 id 查詢
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*dto.UserResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("user not found")
		}
		return nil, cErr.DatabaseError("database GetUserByID error")
	}
	return modelToUserResponseDto(user), nil
}

// ListUsers 管理後台列舉（分頁）
func (s *UserService) ListUsers(ctx context.Context, filter bson.M, page, size int64) ([]*dto.UserResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	users, err := s.userRepo.List(ctx, core.ListOptions{Filter: filter, Page: page, Size: size})
	if err != nil {
		return nil, cErr.DatabaseError("database ListUsers error")
	}
	resp := make([]*dto.UserResponseDto, len(users))
	for i, u := range users {
		resp[i] = modelToUserResponseDto(u)
	}
	return resp, nil
}

func modelToUserResponseDto(user *model.User) *dto.UserResponseDto {
	return &dto.UserResponseDto{
		ID:          user.ID.Hex(),
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Plan:        user.Plan,
		Role:        user.Role,
		Status:      user.Status,
		CreatedAt:   user.CreatedAt,
	}
}

// UpdateStatus 管理端調整用戶狀態（封鎖 / 解封 / 軟刪除）
func (s *UserService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status core.Status) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	matched, err := s.userRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return cErr.DatabaseError("database UpdateStatus error")
	}
	if matched == 0 {
		return cErr.NotFound("user not found")
	}
	return nil
}

// UpdatePlan 管理端調整用戶方案
func (s *UserService) UpdatePlan(ctx context.Context, id primitive.ObjectID, plan core.PlanTier) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	matched, err := s.userRepo.UpdatePlan(ctx, id, plan)
	if err != nil {
		return cErr.DatabaseError("database UpdatePlan error")
	}
	if matched == 0 {
		return cErr.NotFound("user not found")
	}
	return nil
}
