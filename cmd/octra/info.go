package main

import (
	"github.com/urfave/cli/v2"

	walletservice "github.com/octra-network/octra-daemon/internal/service/wallet"
)

var info = cli.Command{
	Name:   "info",
	Usage:  "show the wallet's address and public key",
	Action: infoAction,
}

func infoAction(ctx *cli.Context) error {
	return runAction(ctx, walletservice.ActionRequest{
		Action:     walletservice.ActionWalletInfo,
		WalletPath: ctx.String("wallet"),
	})
}
