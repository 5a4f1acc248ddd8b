// Hand-maintained protobuf bindings in the legacy (pre-protoimpl) generated
// form; grpc-go handles them through protoadapt. Keep in sync with
// source: proto/user/v1/user.proto

package userv1

import (
	prototext "google.golang.org/protobuf/encoding/prototext"
	protoadapt "google.golang.org/protobuf/protoadapt"
)

type CreateUserRequest struct {
	Username string `protobuf:"bytes,1,opt,name=username,proto3" json:"username,omitempty"`
	Email    string `protobuf:"bytes,2,opt,name=email,proto3" json:"email,omitempty"`
	Password string `protobuf:"bytes,3,opt,name=password,proto3" json:"password,omitempty"`
}

func (x *CreateUserRequest) Reset()         { *x = CreateUserRequest{} }
func (x *CreateUserRequest) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*CreateUserRequest) ProtoMessage()    {}

func (x *CreateUserRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *CreateUserRequest) GetEmail() string {
	if x != nil {
		return x.Email
	}
	return ""
}

func (x *CreateUserRequest) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

type GetUserRequest struct {
	UserId string `protobuf:"bytes,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
}

func (x *GetUserRequest) Reset()         { *x = GetUserRequest{} }
func (x *GetUserRequest) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*GetUserRequest) ProtoMessage()    {}

func (x *GetUserRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type AuthRequest struct {
	Username string `protobuf:"bytes,1,opt,name=username,proto3" json:"username,omitempty"`
	Password string `protobuf:"bytes,2,opt,name=password,proto3" json:"password,omitempty"`
}

func (x *AuthRequest) Reset()         { *x = AuthRequest{} }
func (x *AuthRequest) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*AuthRequest) ProtoMessage()    {}

func (x *AuthRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *AuthRequest) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

type UserResponse struct {
	UserId   string `protobuf:"bytes,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
	Username string `protobuf:"bytes,2,opt,name=username,proto3" json:"username,omitempty"`
	Email    string `protobuf:"bytes,3,opt,name=email,proto3" json:"email,omitempty"`
}

func (x *UserResponse) Reset()         { *x = UserResponse{} }
func (x *UserResponse) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*UserResponse) ProtoMessage()    {}

func (x *UserResponse) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

func (x *UserResponse) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *UserResponse) GetEmail() string {
	if x != nil {
		return x.Email
	}
	return ""
}

type AuthResponse struct {
	Token string `protobuf:"bytes,1,opt,name=token,proto3" json:"token,omitempty"`
}

func (x *AuthResponse) Reset()         { *x = AuthResponse{} }
func (x *AuthResponse) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*AuthResponse) ProtoMessage()    {}

func (x *AuthResponse) GetToken() string {
	if x != nil {
		return x.Token
	}
	return ""
}
