package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"soquy/internal/cli"
	"soquy/internal/ledger"
	"soquy/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `Post, update, and delete transactions. Every change reconciles the wallet balance.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(updateTxCmd())
	cmd.AddCommand(deleteTxCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <wallet-id> <category-id> <amount>",
		Short: "Post a transaction",
		Long: `Post a monetary event against a wallet. The transaction type defaults
to the category's type; an explicit --type must match it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			walletID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wallet ID %q: %w", args[0], err)
			}
			categoryID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category ID %q: %w", args[1], err)
			}
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			params := ledger.TransactionParams{
				WalletID:   walletID,
				CategoryID: categoryID,
				Amount:     amount,
			}
			if typeStr, _ := cmd.Flags().GetString("type"); typeStr != "" {
				txType, parseErr := model.ParseTransactionType(typeStr)
				if parseErr != nil {
					return parseErr
				}
				params.Type = txType
			}
			params.Note, _ = cmd.Flags().GetString("note")
			if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
				occurredAt, parseErr := time.Parse("2006-01-02", dateStr)
				if parseErr != nil {
					return fmt.Errorf("invalid date %q: %w", dateStr, parseErr)
				}
				params.OccurredAt = occurredAt
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := led.CreateTransaction(ctx, params)
			if err != nil {
				return friendly(err)
			}

			wallet, err := led.Wallet(ctx, walletID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Posted %s %s (%s); balance is now %s %s",
				txn.Type, txn.Amount.String(), txn.ID, wallet.CurrentBalance.String(), wallet.Currency)))
			return nil
		},
	}

	cmd.Flags().String("type", "", "transaction type (defaults to the category's)")
	cmd.Flags().String("note", "", "free-text note")
	cmd.Flags().String("date", "", "occurred-at date (YYYY-MM-DD, defaults to now)")

	return cmd
}

func updateTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <transaction-id>",
		Short: "Update a posted transaction",
		Long: `Rewrite a posted transaction. The wallet balance is reconciled: the
original contribution is reversed and the new one applied in one step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var update ledger.TransactionUpdate
			if amountStr, _ := cmd.Flags().GetString("amount"); amountStr != "" {
				amount, err := decimal.NewFromString(amountStr)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountStr, err)
				}
				update.Amount = &amount
			}
			if typeStr, _ := cmd.Flags().GetString("type"); typeStr != "" {
				txType, err := model.ParseTransactionType(typeStr)
				if err != nil {
					return err
				}
				update.Type = &txType
			}
			if categoryID, _ := cmd.Flags().GetInt64("category"); categoryID != 0 {
				update.CategoryID = &categoryID
			}
			if cmd.Flags().Changed("note") {
				note, _ := cmd.Flags().GetString("note")
				update.Note = &note
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := led.UpdateTransaction(ctx, args[0], update)
			if err != nil {
				return friendly(err)
			}

			wallet, err := led.Wallet(ctx, txn.WalletID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Updated %s; balance is now %s %s",
				txn.ID, wallet.CurrentBalance.String(), wallet.Currency)))
			return nil
		},
	}

	cmd.Flags().String("amount", "", "new amount")
	cmd.Flags().String("type", "", "new transaction type")
	cmd.Flags().Int64("category", 0, "new category ID")
	cmd.Flags().String("note", "", "new note")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a posted transaction",
		Long:  `Remove a transaction and reverse its balance contribution.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := led.DeleteTransaction(ctx, args[0]); err != nil {
				return friendly(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
			return nil
		},
	}
}

func listTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <wallet-id>",
		Short: "List a wallet's transactions",
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

			txns, err := led.Transactions(ctx, walletID)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
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
