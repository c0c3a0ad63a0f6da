package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/octra-network/octra-daemon/internal/walletfile"
	"github.com/octra-network/octra-daemon/pkg/wallet"
)

var generate = cli.Command{
	Name:  "generate",
	Usage: "generate a new wallet and store its identity file",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "entropy",
			Usage: "entropy strength in bits (128, 160, 192, 224 or 256)",
			Value: 128,
		},
		&cli.StringFlag{
			Name:  "passphrase",
			Usage: "optional mnemonic passphrase",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "path of the identity file to write, timestamped name if empty",
		},
	},
	Action: generateAction,
}

var restore = cli.Command{
	Name:  "restore",
	Usage: "restore a wallet from its mnemonic and store its identity file",
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
		&cli.StringFlag{
			Name:  "output",
			Usage: "path of the identity file to write, timestamped name if empty",
		},
	},
	Action: restoreAction,
}

func generateAction(ctx *cli.Context) error {
	w, err := wallet.NewWallet(wallet.NewWalletOpts{
		EntropySize: ctx.Int("entropy"),
		Passphrase:  ctx.String("passphrase"),
	})
	if err != nil {
		return err
	}
	return storeIdentity(ctx, w, true)
}

func restoreAction(ctx *cli.Context) error {
	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic:   strings.Fields(ctx.String("mnemonic")),
		Passphrase: ctx.String("passphrase"),
	})
	if err != nil {
		return err
	}
	return storeIdentity(ctx, w, false)
}

func storeIdentity(ctx *cli.Context, w *wallet.Wallet, showMnemonic bool) error {
	prvkey, pubkey, err := w.Keypair()
	if err != nil {
		return err
	}
	addr, err := w.Address()
	if err != nil {
		return err
	}

	path, err := walletfile.Save(&walletfile.Identity{
		PrivateKey: prvkey,
		PublicKey:  pubkey,
		Address:    addr,
	}, ctx.String("output"))
	if err != nil {
		return err
	}

	if showMnemonic {
		mnemonic, err := w.Mnemonic()
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(strings.Join(mnemonic, " "))
		fmt.Println()
	}

	printRespJSON(map[string]string{
		"address": addr,
		"wallet":  path,
	})
	return nil
}
