package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userv1 "github.com/quickcart/orderflow/internal/genproto/user/v1"
	"github.com/quickcart/orderflow/internal/user-service/domain"
	"github.com/quickcart/orderflow/internal/user-service/token"
)

type fakeStore struct {
	byUsername map[string]*domain.User
	byID       map[string]*domain.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byUsername: map[string]*domain.User{},
		byID:       map[string]*domain.User{},
	}
}

func (f *fakeStore) Create(_ context.Context, u *domain.User) error {
	if _, ok := f.byUsername[u.Username]; ok {
		return domain.ErrAlreadyExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.byUsername[u.Username] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func newTestServer(t *testing.T) (userv1.UserServiceServer, *fakeStore) {
	t.Helper()
	issuer, err := token.NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	store := newFakeStore()
	return NewUserServer(store, issuer), store
}

func TestCreateUserHashesPassword(t *testing.T) {
	srv, store := newTestServer(t)

	resp, err := srv.CreateUser(context.Background(), &userv1.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if resp.GetUserId() == "" {
		t.Fatalf("expected a user id")
	}
	if resp.GetUsername() != "alice" || resp.GetEmail() != "alice@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	stored := store.byUsername["alice"]
	if stored.PasswordHash == "s3cret" {
		t.Fatalf("password was stored in plaintext")
	}
	if VerifyPassword(stored.PasswordHash, "s3cret") != nil {
		t.Fatalf("stored hash does not verify against the password")
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	req := &userv1.CreateUserRequest{Username: "alice", Email: "a@example.com", Password: "pw"}
	if _, err := srv.CreateUser(ctx, req); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := srv.CreateUser(ctx, req)
	st, _ := status.FromError(err)
	if st.Code() != codes.AlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
	if st.Message() != "User already exists" {
		t.Fatalf("unexpected message: %q", st.Message())
	}
}

func TestGetUser(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	id := uuid.NewString()
	store.Create(ctx, &domain.User{ID: id, Username: "alice", Email: "a@example.com"})

	resp, err := srv.GetUser(ctx, &userv1.GetUserRequest{UserId: id})
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if resp.GetUserId() != id || resp.GetUsername() != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := srv.GetUser(context.Background(), &userv1.GetUserRequest{UserId: uuid.NewString()})
	st, _ := status.FromError(err)
	if st.Code() != codes.NotFound || st.Message() != "User not found" {
		t.Fatalf("expected NotFound %q, got %v", "User not found", err)
	}
}

func TestGetUserInvalidID(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := srv.GetUser(context.Background(), &userv1.GetUserRequest{UserId: "not-a-uuid"})
	st, _ := status.FromError(err)
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	if _, err := srv.CreateUser(ctx, &userv1.CreateUserRequest{
		Username: "alice", Email: "a@example.com", Password: "s3cret",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	resp, err := srv.AuthenticateUser(ctx, &userv1.AuthRequest{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("AuthenticateUser: %v", err)
	}
	if resp.GetToken() == "" {
		t.Fatalf("expected a token")
	}
}

// Unknown usernames and wrong passwords must produce the same error so the
// endpoint cannot be used to probe which accounts exist.
func TestAuthenticateUserFailuresIndistinguishable(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	if _, err := srv.CreateUser(ctx, &userv1.CreateUserRequest{
		Username: "alice", Email: "a@example.com", Password: "s3cret",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, errWrongPassword := srv.AuthenticateUser(ctx, &userv1.AuthRequest{Username: "alice", Password: "nope"})
	_, errUnknownUser := srv.AuthenticateUser(ctx, &userv1.AuthRequest{Username: "ghost", Password: "nope"})

	for _, err := range []error{errWrongPassword, errUnknownUser} {
		st, _ := status.FromError(err)
		if st.Code() != codes.Unauthenticated || st.Message() != "Invalid credentials" {
			t.Fatalf("expected Unauthenticated %q, got %v", "Invalid credentials", err)
		}
	}
	if status.Convert(errWrongPassword).Message() != status.Convert(errUnknownUser).Message() {
		t.Fatalf("failure modes are distinguishable")
	}
}
