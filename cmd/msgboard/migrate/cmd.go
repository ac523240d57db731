package migrate

import (
	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/internal/cmdflags"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var db string
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or upgrade the database schema and exit",
		Flags: []cli.Flag{
			cmdflags.Database(&db),
		},
		Action: func(ctx *cli.Context) error {
			// Open applies pending migrations
			store, err := board.Open(ctx.Context, db)
			if err != nil {
				return err
			}
			defer store.Close()
			for _, name := range board.Tables {
				td, err := store.DescribeTable(ctx.Context, name)
				if err != nil {
					return err
				}
				columns := make([]string, 0, len(td.Columns))
				for _, c := range td.Columns {
					columns = append(columns, c.Name)
				}
				log.Debug().Str("table", name).Strs("columns", columns).Int("unique", len(td.Unique)).Msg("Table ready")
			}
			log.Info().Str("db", db).Msg("Database schema is up to date")
			return nil
		},
	}
}
