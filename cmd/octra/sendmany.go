package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	walletservice "github.com/octra-network/octra-daemon/internal/service/wallet"
)

var sendmany = cli.Command{
	Name:  "sendmany",
	Usage: "sign and submit one transfer per recipient in concurrent batches",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "recipient",
			Usage:    "recipient as address:amount, repeatable",
			Required: true,
		},
	},
	Action: sendManyAction,
}

func sendManyAction(ctx *cli.Context) error {
	raw := ctx.StringSlice("recipient")
	recipients := make([]walletservice.Recipient, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("recipient '%s' must be of form address:amount", entry)
		}
		recipients = append(recipients, walletservice.Recipient{
			To:     parts[0],
			Amount: parts[1],
		})
	}

	return runAction(ctx, walletservice.ActionRequest{
		Action:     walletservice.ActionSendMany,
		Recipients: recipients,
	})
}
