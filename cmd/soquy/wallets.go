package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"soquy/internal/cli"
	"soquy/internal/ledger"
)

func walletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Manage wallets",
		Long:  `Create, list, and inspect wallets and their running balances.`,
	}

	cmd.AddCommand(addWalletCmd())
	cmd.AddCommand(listWalletsCmd())
	cmd.AddCommand(showWalletCmd())

	return cmd
}

func addWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			owner, _ := cmd.Flags().GetString("owner")
			currency, _ := cmd.Flags().GetString("currency")
			description, _ := cmd.Flags().GetString("description")
			initial, _ := cmd.Flags().GetString("initial-balance")
			noBootstrap, _ := cmd.Flags().GetBool("no-categories")

			initialBalance := decimal.Zero
			if initial != "" {
				parsed, err := decimal.NewFromString(initial)
				if err != nil {
					return fmt.Errorf("invalid initial balance %q: %w", initial, err)
				}
				initialBalance = parsed
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wallet, err := led.CreateWallet(ctx, ledger.WalletParams{
				OwnerID:             owner,
				Name:                args[0],
				Description:         description,
				Currency:            currency,
				InitialBalance:      initialBalance,
				BootstrapCategories: !noBootstrap,
			})
			if err != nil {
				return friendly(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Created wallet %q (ID %d) with balance %s %s",
				wallet.Name, wallet.ID, wallet.CurrentBalance.String(), wallet.Currency)))
			return nil
		},
	}

	cmd.Flags().String("owner", "", "owner identifier")
	cmd.Flags().String("currency", "", "currency code (default VND)")
	cmd.Flags().String("description", "", "wallet description")
	cmd.Flags().String("initial-balance", "0", "starting balance")
	cmd.Flags().Bool("no-categories", false, "skip bootstrapping categories from templates")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func listWalletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets for an owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			owner, _ := cmd.Flags().GetString("owner")

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wallets, err := led.Wallets(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to list wallets: %w", err)
			}

			if len(wallets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No wallets found. Use 'soquy wallets add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Currency"),
				cli.HeaderStyle.Render("Balance"))

			for _, wallet := range wallets {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					wallet.ID, wallet.Name, wallet.Currency, wallet.CurrentBalance.String())
			}
			return nil
		},
	}

	cmd.Flags().String("owner", "", "owner identifier")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func showWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <wallet-id>",
		Short: "Show a wallet and its recent transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			walletID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wallet ID %q: %w", args[0], err)
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wallet, err := led.Wallet(ctx, walletID)
			if err != nil {
				return friendly(err)
			}

			fmt.Println(cli.FormatTitle(wallet.Name))
			fmt.Printf("Owner: %s\n", wallet.OwnerID)
			fmt.Printf("Balance: %s %s (initial %s)\n",
				wallet.CurrentBalance.String(), wallet.Currency, wallet.InitialBalance.String())
			if wallet.Description != "" {
				fmt.Println(cli.SubtleStyle.Render(wallet.Description))
			}

			txns, err := led.Transactions(ctx, walletID)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Note"),
				cli.HeaderStyle.Render("ID"))

			for _, txn := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					txn.OccurredAt.Format("2006-01-02"),
					txn.Type,
					txn.Amount.String(),
					txn.Note,
					txn.ID)
			}
			return nil
		},
	}
}
