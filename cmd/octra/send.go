package main

import (
	"github.com/urfave/cli/v2"

	walletservice "github.com/octra-network/octra-daemon/internal/service/wallet"
)

var send = cli.Command{
	Name:  "send",
	Usage: "sign and submit a single transfer",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "recipient address",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "amount in whole units, decimals allowed",
			Required: true,
		},
	},
	Action: sendAction,
}

func sendAction(ctx *cli.Context) error {
	return runAction(ctx, walletservice.ActionRequest{
		Action: walletservice.ActionSend,
		To:     ctx.String("to"),
		Amount: ctx.String("amount"),
	})
}
