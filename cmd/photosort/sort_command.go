package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"photosort/internal/fileutil"
	"photosort/internal/preflight"
	"photosort/internal/sorter"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "sort <dir>",
		Short: "Group photos by day and place and move them into dated folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.resolve(cmd, base)
			if err != nil {
				return err
			}
			dir, err := sourceDir(args[0])
			if err != nil {
				return err
			}
			dest := dir
			if cfg.Output.DestDir != "" {
				dest = cfg.Output.DestDir
			}

			out := cmd.OutOrStdout()
			color := !ctx.jsonOutput() && shouldColorize(out)

			checks := preflight.RunAll(cmd.Context(), cfg, dir, cfg.Output.DryRun)
			if err := checkPreflight(checks); err != nil {
				if ctx.jsonOutput() {
					_ = writeJSON(cmd, sortOutput{Preflight: checks})
				} else {
					printChecks(out, checks, color)
				}
				return err
			}

			logger, err := ctx.newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			if !cfg.Output.DryRun {
				lock, err := fileutil.LockDir(dir)
				if err != nil {
					if isLocked(err) {
						return fmt.Errorf("%w; wait for the other run to finish", err)
					}
					return err
				}
				defer lock.Unlock()
			}

			env, err := openRunEnv(cfg, logger)
			if err != nil {
				return err
			}
			defer env.Close()

			runCtx, _ := sorter.EnsureRunID(cmd.Context())
			plan, err := env.plan(runCtx, dir)
			if err != nil {
				return err
			}
			report := env.sorter.Apply(runCtx, plan, dest, cfg.Output.DryRun)

			if ctx.jsonOutput() {
				return writeJSON(cmd, sortOutput{Plan: planToOutput(plan), Report: reportToOutput(report)})
			}
			if cfg.Output.DryRun || ctx.verbose() {
				printPlan(out, plan)
			}
			printReport(out, plan, report, color)
			if report.Cancelled {
				return cmd.Context().Err()
			}
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "plan <dir>",
		Short: "Preview how photos would be grouped without moving anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.resolve(cmd, base)
			if err != nil {
				return err
			}
			dir, err := sourceDir(args[0])
			if err != nil {
				return err
			}

			checks := preflight.RunAll(cmd.Context(), cfg, dir, true)
			if err := checkPreflight(checks); err != nil {
				printChecks(cmd.OutOrStdout(), checks, shouldColorize(cmd.OutOrStdout()))
				return err
			}

			logger, err := ctx.newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			env, err := openRunEnv(cfg, logger)
			if err != nil {
				return err
			}
			defer env.Close()

			plan, err := env.plan(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, planToOutput(plan))
			}
			printPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	flags.register(cmd, false)
	return cmd
}
