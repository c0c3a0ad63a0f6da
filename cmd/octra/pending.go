package main

import (
	"github.com/urfave/cli/v2"

	walletservice "github.com/octra-network/octra-daemon/internal/service/wallet"
)

var pending = cli.Command{
	Name:   "pending",
	Usage:  "show the wallet's transactions still in the staging pool",
	Action: pendingAction,
}

func pendingAction(ctx *cli.Context) error {
	return runAction(ctx, walletservice.ActionRequest{
		Action: walletservice.ActionPending,
	})
}
