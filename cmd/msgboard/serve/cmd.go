package serve

import (
	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/board/session"
	authapi "github.com/andrebq/msgboard/board/session/api"
	"github.com/andrebq/msgboard/internal/cmdflags"
	"github.com/andrebq/msgboard/internal/httpserver"
	"github.com/andrebq/msgboard/web"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var bindAddr string
	var db string
	cost := session.MinCost
	var secureCookie bool
	var persistSessions bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the message board web server",
		Flags: []cli.Flag{
			cmdflags.Bind(&bindAddr),
			cmdflags.Database(&db),
			cmdflags.BcryptCost(&cost),
			&cli.BoolFlag{
				Name:        "secure-cookie",
				Usage:       "Only send the session cookie over https",
				EnvVars:     []string{"MSGBOARD_SECURE_COOKIE"},
				Destination: &secureCookie,
			},
			&cli.BoolFlag{
				Name:        "persist-sessions",
				Usage:       "Keep session tokens in the database so they survive restarts",
				EnvVars:     []string{"MSGBOARD_PERSIST_SESSIONS"},
				Destination: &persistSessions,
			},
		},
		Action: func(ctx *cli.Context) error {
			if err := cmdflags.CheckBcryptCost(cost); err != nil {
				return err
			}
			store, err := board.Open(ctx.Context, db)
			if err != nil {
				return err
			}
			defer store.Close()

			tokens, closeTokens, err := tokenStore(store, persistSessions)
			if err != nil {
				return err
			}
			defer closeTokens()

			registry := session.NewRegistry(tokens, store, nil)
			handler, err := web.AsHandler(ctx.Context, web.Config{
				Store:  store,
				Issuer: registry,
				Realm:  authapi.NewRealm(registry, secureCookie),
				Hasher: session.Hasher{Cost: cost},
			})
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}

func tokenStore(store *board.Store, persist bool) (session.TokenStore, func(), error) {
	if persist {
		log.Info().Msg("Session tokens will be kept in the database")
		return session.SQLTokenStore(store.DB()), func() {}, nil
	}
	mem, err := session.InMemoryTokenStore()
	if err != nil {
		return nil, nil, err
	}
	return mem, func() { mem.Close() }, nil
}

