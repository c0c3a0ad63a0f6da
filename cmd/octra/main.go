package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/octra-network/octra-daemon/config"
	walletservice "github.com/octra-network/octra-daemon/internal/service/wallet"
	"github.com/octra-network/octra-daemon/internal/walletfile"
	"github.com/octra-network/octra-daemon/pkg/stats"
)

var walletFlag = cli.StringFlag{
	Name:  "wallet",
	Usage: "path of the wallet identity file",
	Value: config.GetString(config.WalletPathKey),
}

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "octra CLI"
	app.Usage = "Command line interface for the octra wallet daemon"
	app.Flags = append(app.Flags, &walletFlag)
	app.Commands = append(
		app.Commands,
		&generate,
		&restore,
		&derive,
		&status,
		&history,
		&pending,
		&send,
		&sendmany,
		&info,
	)

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(
			context.Background(), interval,
			filepath.Join(config.GetDatadir(), config.ProfilerLocation),
		)
	}

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// getService loads the wallet identity and wires it to the configured
// ledger endpoint. An rpc field in the wallet file overrides the endpoint.
func getService(ctx *cli.Context) (*walletservice.Service, error) {
	identity, err := walletfile.Load(ctx.String("wallet"))
	if err != nil {
		return nil, err
	}

	if len(identity.RPC) > 0 {
		config.Set(config.LedgerEndpointKey, identity.RPC)
	}
	node, err := config.GetLedger()
	if err != nil {
		return nil, err
	}

	return walletservice.NewService(walletservice.ServiceOpts{
		PrivateKey:      identity.PrivateKey,
		Address:         identity.Address,
		Ledger:          node,
		StatusCacheTTL:  time.Duration(config.GetInt(config.StatusCacheTTLKey)) * time.Second,
		HistoryCacheTTL: time.Duration(config.GetInt(config.HistoryCacheTTLKey)) * time.Second,
		HistoryLimit:    config.GetInt(config.HistoryLimitKey),
		BatchSize:       config.GetInt(config.BatchSizeKey),
		BroadcastLimit:  rate.Limit(config.GetInt(config.BroadcastLimitKey)),
		BroadcastBurst:  config.GetInt(config.BroadcastTokenBurst),
	})
}

// runAction dispatches through the service's action boundary and prints
// the result, failing the command when the action did not succeed.
func runAction(ctx *cli.Context, req walletservice.ActionRequest) error {
	service, err := getService(ctx)
	if err != nil {
		return err
	}

	result := service.ProcessAction(context.Background(), req)
	printRespJSON(result)
	if !result.Success {
		return cli.Exit("", 1)
	}
	return nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to encode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[octra] %v\n", err)
	os.Exit(1)
}
