package main

import (
	"encoding/hex"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/octra-network/octra-daemon/pkg/wallet"
)

var derive = cli.Command{
	Name:  "derive",
	Usage: "derive a network account from a mnemonic",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "mnemonic",
			Usage:    "space separated mnemonic words",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "passphrase",
			Usage: "optional mnemonic passphrase",
		},
		&cli.UintFlag{
			Name:  "network-type",
			Usage: "network type (0 main coin, 1 sub coin, 2 contract, ...)",
		},
		&cli.UintFlag{Name: "network", Usage: "network number"},
		&cli.UintFlag{Name: "contract", Usage: "contract number"},
		&cli.UintFlag{Name: "account", Usage: "account number"},
		&cli.UintFlag{Name: "token", Usage: "token number"},
		&cli.UintFlag{Name: "subnet", Usage: "subnet number"},
		&cli.UintFlag{Name: "index", Usage: "address index"},
	},
	Action: deriveAction,
}

func deriveAction(ctx *cli.Context) error {
	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic:   strings.Fields(ctx.String("mnemonic")),
		Passphrase: ctx.String("passphrase"),
	})
	if err != nil {
		return err
	}

	account, err := w.DeriveForNetwork(wallet.NetworkPathOpts{
		NetworkType: uint32(ctx.Uint("network-type")),
		Network:     uint32(ctx.Uint("network")),
		Contract:    uint32(ctx.Uint("contract")),
		Account:     uint32(ctx.Uint("account")),
		Token:       uint32(ctx.Uint("token")),
		Subnet:      uint32(ctx.Uint("subnet")),
		Index:       uint32(ctx.Uint("index")),
	})
	if err != nil {
		return err
	}

	printRespJSON(map[string]string{
		"path":       account.Path.String(),
		"address":    account.Address,
		"public_key": hex.EncodeToString(account.PublicKey),
		"network":    account.NetworkTypeName,
	})
	return nil
}
