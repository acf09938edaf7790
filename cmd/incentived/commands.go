// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/incentive/client"
	"github.com/vechain/incentive/thor"
)

var (
	nodeURLFlag = cli.StringFlag{
		Name:  "node",
		Value: "http://localhost:8669",
		Usage: "API url of a running node",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address the call is made from",
	}

	callCommand = cli.Command{
		Name:      "call",
		Usage:     "call a contract method on a running node",
		ArgsUsage: "<contract> <method> [json args]",
		Flags:     []cli.Flag{nodeURLFlag, callerFlag},
		Action:    callAction,
	}
	contractsCommand = cli.Command{
		Name:   "contracts",
		Usage:  "list contracts and methods of a running node",
		Flags:  []cli.Flag{nodeURLFlag},
		Action: contractsAction,
	}
)

func callAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("contract and method required")
	}

	var caller thor.Address
	if s := ctx.String(callerFlag.Name); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return errors.WithMessage(err, "caller")
		}
		caller = addr
	}

	var args any
	if ctx.NArg() > 2 {
		raw := json.RawMessage(ctx.Args().Get(2))
		if !json.Valid(raw) {
			return errors.New("args must be a json object")
		}
		args = raw
	}

	out, err := client.New(ctx.String(nodeURLFlag.Name)).Call(ctx.Args().Get(0), ctx.Args().Get(1), caller, args)
	if err != nil {
		return err
	}
	if err := printJSON(out); err != nil {
		return err
	}
	if out.Reverted {
		return errors.Errorf("reverted: %s", out.Revert.Message)
	}
	return nil
}

func contractsAction(ctx *cli.Context) error {
	list, err := client.New(ctx.String(nodeURLFlag.Name)).Contracts()
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Printf("%s %v\n", c.Name, c.Address)
		for _, m := range c.Methods {
			mode := "call"
			if m.ReadOnly {
				mode = "view"
			}
			fmt.Printf("    %-24s %s\n", m.Name, mode)
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
