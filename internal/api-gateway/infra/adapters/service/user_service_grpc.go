package service

import (
	"context"
	"fmt"

	"github.com/quickcart/orderflow/internal/api-gateway/core/domain/entity"
	"github.com/quickcart/orderflow/internal/api-gateway/core/ports"
	userv1 "github.com/quickcart/orderflow/internal/genproto/user/v1"
)

// GRPCUserService adapts the UserService gRPC client to the gateway port.
// Errors are wrapped with %w so the handler can still read the gRPC status.
type GRPCUserService struct {
	client userv1.UserServiceClient
}

var _ ports.UserService = (*GRPCUserService)(nil)

func NewGRPCUserClient(client userv1.UserServiceClient) ports.UserService {
	return &GRPCUserService{client: client}
}

func (s *GRPCUserService) CreateUser(ctx context.Context, username, email, password string) (*entity.User, error) {
	res, err := s.client.CreateUser(ctx, &userv1.CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("grpc CreateUser: %w", err)
	}
	return userToEntity(res), nil
}

func (s *GRPCUserService) Login(ctx context.Context, username, password string) (string, error) {
	res, err := s.client.AuthenticateUser(ctx, &userv1.AuthRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("grpc AuthenticateUser: %w", err)
	}
	return res.GetToken(), nil
}

func (s *GRPCUserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	res, err := s.client.GetUser(ctx, &userv1.GetUserRequest{UserId: id})
	if err != nil {
		return nil, fmt.Errorf("grpc GetUser: %w", err)
	}
	return userToEntity(res), nil
}

func userToEntity(res *userv1.UserResponse) *entity.User {
	return &entity.User{
		ID:       res.GetUserId(),
		Username: res.GetUsername(),
		Email:    res.GetEmail(),
	}
}
