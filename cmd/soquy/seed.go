package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soquy/internal/cli"
	"soquy/internal/seed"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the master category catalog",
		Long: `Load the built-in master category templates used to bootstrap new
wallets. With --demo, also create a demo wallet with sample transactions.`,
		RunE: runSeed,
	}

	cmd.Flags().Bool("demo", false, "also create a demo wallet with sample data")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	demo, _ := cmd.Flags().GetBool("demo")

	led, store, err := initLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := seed.Templates(ctx, store); err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	fmt.Println(cli.FormatSuccess("Master category templates are in place."))

	if demo {
		wallet, err := seed.Demo(ctx, store, led)
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf(
			"Demo wallet %q (ID %d) ready with balance %s %s.",
			wallet.Name, wallet.ID, wallet.CurrentBalance.String(), wallet.Currency)))
	}

	return nil
}
