package main

import (
	"github.com/urfave/cli/v2"

	walletservice "github.com/octra-network/octra-daemon/internal/service/wallet"
)

var status = cli.Command{
	Name:  "status",
	Usage: "show the wallet's balance and next nonce",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "bypass the cache and refetch from the node",
		},
	},
	Action: statusAction,
}

func statusAction(ctx *cli.Context) error {
	return runAction(ctx, walletservice.ActionRequest{
		Action: walletservice.ActionStatus,
		Force:  ctx.Bool("force"),
	})
}
