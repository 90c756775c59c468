package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/msa300"
	"github.com/mklimuk/msa300/cmd/msa300/console"
)

var orientCmd = cli.Command{
	Name:    "orientation",
	Aliases: []string{"orient"},
	Subcommands: cli.Commands{
		&orientCheckCmd,
		&orientModeCmd,
		&orientHystCmd,
		&orientBlockCmd,
	},
}

var orientModes = map[string]msa300.OrientMode{
	"symmetrical":     msa300.OrientSymmetrical,
	"high-asymmetric": msa300.OrientHighAsymmetric,
	"low-asymmetric":  msa300.OrientLowAsymmetric,
}

var blockModes = map[string]msa300.BlockMode{
	"none":    msa300.BlockNone,
	"z":       msa300.BlockZ,
	"z-slope": msa300.BlockZOrSlope,
}

var orientCheckCmd = cli.Command{
	Name:  "check",
	Usage: "read the current device orientation",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			snap, err := s.CheckOrientation(ctx)
			if err != nil {
				return err
			}
			z := "up"
			if snap.ZDown {
				z = "down"
			}
			console.Printf("z: %s, xy: %s\n", console.Bold(z), console.Bold(snap.XY.String()))
			return nil
		})
	},
}

var orientModeCmd = cli.Command{
	Name:      "mode",
	Usage:     "set the orientation detection mode",
	ArgsUsage: "<symmetrical|high-asymmetric|low-asymmetric>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		mode, ok := orientModes[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown orientation mode %q", c.Args().First())
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetOrientMode(ctx, mode)
		})
	},
}

var orientHystCmd = cli.Command{
	Name:      "hysteresis",
	Aliases:   []string{"hyst"},
	Usage:     "set the orientation detection hysteresis in mg",
	ArgsUsage: "<mg>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		hyst, err := strconv.ParseFloat(c.Args().First(), 32)
		if err != nil {
			return console.Exit(1, "could not parse hysteresis: %s", console.Red(err))
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetOrientHysteresis(ctx, float32(hyst))
		})
	},
}

var orientBlockCmd = cli.Command{
	Name:      "blocking",
	Usage:     "set the orientation blocking mode and z-axis threshold in mg",
	ArgsUsage: "<none|z|z-slope> [threshold]",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		mode, ok := blockModes[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown blocking mode %q", c.Args().First())
		}
		var threshold float64
		if c.Args().Len() > 1 {
			var err error
			threshold, err = strconv.ParseFloat(c.Args().Get(1), 32)
			if err != nil {
				return console.Exit(1, "could not parse threshold: %s", console.Red(err))
			}
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetBlocking(ctx, mode, float32(threshold))
		})
	},
}
