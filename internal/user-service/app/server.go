// Package app implements the UserService gRPC servicer.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userv1 "github.com/quickcart/orderflow/internal/genproto/user/v1"
	"github.com/quickcart/orderflow/internal/user-service/domain"
	"github.com/quickcart/orderflow/internal/user-service/storage"
	"github.com/quickcart/orderflow/internal/user-service/token"
)

const internalErrMsg = "Internal error occurred"

type userServer struct {
	userv1.UnimplementedUserServiceServer
	store  storage.Store
	tokens *token.Issuer
}

func NewUserServer(store storage.Store, tokens *token.Issuer) userv1.UserServiceServer {
	return &userServer{store: store, tokens: tokens}
}

// CreateUser registers a new account. The password is bcrypt-hashed before
// it is persisted; the response never carries the hash.
func (s *userServer) CreateUser(ctx context.Context, req *userv1.CreateUserRequest) (*userv1.UserResponse, error) {
	slog.InfoContext(ctx, "creating user", "username", req.GetUsername())

	if _, err := s.store.FindByUsername(ctx, req.GetUsername()); err == nil {
		slog.WarnContext(ctx, "user already exists", "username", req.GetUsername())
		return nil, status.Error(codes.AlreadyExists, "User already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		slog.ErrorContext(ctx, "user lookup failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	hash, err := HashPassword(req.GetPassword())
	if err != nil {
		slog.ErrorContext(ctx, "password hashing failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	user := &domain.User{
		Username:     req.GetUsername(),
		Email:        req.GetEmail(),
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, user); err != nil {
		// The unique index is the authority; the pre-check above only
		// catches the common case before hashing work is done.
		if errors.Is(err, domain.ErrAlreadyExists) {
			slog.WarnContext(ctx, "user already exists", "username", req.GetUsername())
			return nil, status.Error(codes.AlreadyExists, "User already exists")
		}
		slog.ErrorContext(ctx, "user insert failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	slog.InfoContext(ctx, "user created", "user_id", user.ID)
	return &userv1.UserResponse{
		UserId:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// GetUser fetches a user by id.
func (s *userServer) GetUser(ctx context.Context, req *userv1.GetUserRequest) (*userv1.UserResponse, error) {
	slog.InfoContext(ctx, "getting user", "user_id", req.GetUserId())

	if _, err := uuid.Parse(req.GetUserId()); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid user id %q", req.GetUserId())
	}

	user, err := s.store.FindByID(ctx, req.GetUserId())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "user not found", "user_id", req.GetUserId())
			return nil, status.Error(codes.NotFound, "User not found")
		}
		slog.ErrorContext(ctx, "user lookup failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	return &userv1.UserResponse{
		UserId:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// AuthenticateUser verifies credentials and issues a signed token.
// Unknown username and wrong password are deliberately indistinguishable.
func (s *userServer) AuthenticateUser(ctx context.Context, req *userv1.AuthRequest) (*userv1.AuthResponse, error) {
	slog.InfoContext(ctx, "authenticating user", "username", req.GetUsername())

	user, err := s.store.FindByUsername(ctx, req.GetUsername())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		slog.ErrorContext(ctx, "user lookup failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}
	if err != nil || VerifyPassword(user.PasswordHash, req.GetPassword()) != nil {
		slog.WarnContext(ctx, "authentication failed", "username", req.GetUsername())
		return nil, status.Error(codes.Unauthenticated, "Invalid credentials")
	}

	signed, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		slog.ErrorContext(ctx, "token issuance failed", "error", err)
		return nil, status.Error(codes.Internal, internalErrMsg)
	}

	slog.InfoContext(ctx, "user authenticated", "user_id", user.ID)
	return &userv1.AuthResponse{Token: signed}, nil
}
