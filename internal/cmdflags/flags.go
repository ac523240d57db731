package cmdflags

import (
	"fmt"

	"github.com/andrebq/msgboard/board/session"
	"github.com/urfave/cli/v2"
)

func Database(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "data.db"
	}
	return &cli.StringFlag{
		Name:        "db",
		Aliases:     []string{"database"},
		Usage:       "Path to the sqlite database file (created if missing)",
		EnvVars:     []string{"MSGBOARD_DB"},
		Value:       *out,
		Destination: out,
	}
}

func Bind(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = "localhost:8000"
	}
	return &cli.StringFlag{
		Name:        "bind",
		Usage:       "Address to bind for incoming requests",
		EnvVars:     []string{"MSGBOARD_BIND"},
		Value:       *out,
		Destination: out,
	}
}

func BcryptCost(out *int) cli.Flag {
	if *out == 0 {
		*out = session.MinCost
	}
	return &cli.IntFlag{
		Name:        "bcrypt-cost",
		Usage:       fmt.Sprintf("Cost factor used to hash passwords (at least %v)", session.MinCost),
		EnvVars:     []string{"MSGBOARD_BCRYPT_COST"},
		Value:       *out,
		Destination: out,
	}
}

func CheckBcryptCost(v int) error {
	if v < session.MinCost {
		return fmt.Errorf("bcrypt-cost must be at least %v, got %v", session.MinCost, v)
	}
	return nil
}
