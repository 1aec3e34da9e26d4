package main

import (
	"context"
	"guesthouse/di"
	"guesthouse/helper"
	"guesthouse/internal/domains/user/model/dto"
	"guesthouse/shared/constant"
	"guesthouse/shared/logger"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cliActor      = "admin-cli"
	minCreateArgs = 4
)

// commands maps each subcommand to the staff level it creates.
var commands = map[string]string{
	"create":            constant.RoleAdmin,
	"create-superadmin": constant.RoleSuperAdmin,
}

func usage() {
	log.Fatal().Msg("Usage: admin create|create-superadmin <email> <password> [full name]")
}

func main() {
	logger.InitLogger()

	if len(os.Args) < minCreateArgs {
		usage()
	}

	level, ok := commands[os.Args[1]]
	if !ok {
		usage()
	}

	helper.Bootstrap()

	req := dto.CreateUserRequest{
		Email:    os.Args[2],
		Password: os.Args[3],
		Level:    level,
	}

	if len(os.Args) > minCreateArgs {
		fullName := strings.Join(os.Args[minCreateArgs:], " ")
		req.FullName = &fullName
	}

	users := di.InitializeUserService()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, cliActor)

	user, err := users.Create(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Str("email", req.Email).Msg("Failed to create admin account")
	}

	log.Info().Str("id", user.ID).Str("email", user.Email).Str("level", user.Level).Msg("Admin account created")
}
