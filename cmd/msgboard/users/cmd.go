package users

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/board/session"
	"github.com/andrebq/msgboard/internal/cmdflags"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var store *board.Store
	var db string
	cost := session.MinCost
	return &cli.Command{
		Name:  "users",
		Usage: "Manage message board users",
		Flags: []cli.Flag{
			cmdflags.Database(&db),
			cmdflags.BcryptCost(&cost),
		},
		Before: func(ctx *cli.Context) error {
			if err := cmdflags.CheckBcryptCost(cost); err != nil {
				return err
			}
			var err error
			store, err = board.Open(ctx.Context, db)
			return err
		},
		After: func(ctx *cli.Context) error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&store, &cost),
		},
	}
}

func registerCmd(store **board.Store, cost *int) *cli.Command {
	var username string
	var email string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name displayed next to the user messages",
				Destination: &username,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email used to login",
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				if sc.Err() != nil {
					return sc.Err()
				}
				return errors.New("missing password from stdin")
			}
			passwd := session.PlainText(strings.TrimSpace(sc.Text()))
			defer passwd.Zero()
			if len(passwd) == 0 {
				return errors.New("missing password from stdin")
			}
			reg := board.Registration{
				Username: strings.TrimSpace(username),
				Email:    strings.TrimSpace(email),
				Password: string(passwd),
			}
			if err := registerUser(ctx.Context, *store, session.Hasher{Cost: *cost}, reg); err != nil {
				return err
			}
			log.Info().Str("username", reg.Username).Str("email", reg.Email).Msg("User registered")
			return nil
		},
	}
}

// registerUser applies the same checks as the web registration form
// before storing the new user
func registerUser(ctx context.Context, store *board.Store, hasher session.Hasher, reg board.Registration) error {
	if err := reg.Validate(); err != nil {
		return errors.New(board.DescribeValidation(err))
	}
	hash, err := hasher.Hash(session.PlainText(reg.Password))
	if err != nil {
		return err
	}
	return store.CreateUser(ctx, reg.Username, reg.Email, hash)
}
