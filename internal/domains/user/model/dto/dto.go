package dto

import (
	"guesthouse/internal/domains/user/model"
	"guesthouse/shared/constant"
	gDto "guesthouse/shared/dto"
	gModel "guesthouse/shared/model"
	"guesthouse/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string  `json:"email"               validate:"required,email,max=100"`
	Password string  `json:"password"            validate:"required,min=8,max=72"`
	Level    string  `json:"level"               validate:"omitempty,oneof=admin superadmin"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	level := r.Level
	if level == "" {
		level = constant.RoleAdmin
	}

	return model.User{
		ID:       uuid.NewString(),
		Email:    model.NormalizeEmail(r.Email),
		Password: hashedPassword,
		Level:    level,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), username),
	}
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Level     string  `json:"level"`
	FullName  *string `json:"full_name,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.Active = model.Active
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := model.LastLogin.Format(time.RFC3339)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}
