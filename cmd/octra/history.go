package main

import (
	"github.com/urfave/cli/v2"

	walletservice "github.com/octra-network/octra-daemon/internal/service/wallet"
)

var history = cli.Command{
	Name:  "history",
	Usage: "show recent account activity, newest first",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "number of transactions to fetch",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "bypass the cache and refetch from the node",
		},
	},
	Action: historyAction,
}

func historyAction(ctx *cli.Context) error {
	return runAction(ctx, walletservice.ActionRequest{
		Action: walletservice.ActionHistory,
		Limit:  ctx.Int("limit"),
		Force:  ctx.Bool("force"),
	})
}
