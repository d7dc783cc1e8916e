package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"soquy/internal/cli"
	"soquy/internal/ledger"
	"soquy/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage wallet categories",
		Long:  `List, add, and delete the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(bootstrapCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <wallet-id>",
		Short: "List a wallet's categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			walletID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wallet ID %q: %w", args[0], err)
			}
			all, _ := cmd.Flags().GetBool("all")

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var categories []model.Category
			if all {
				categories, err = led.Categories(ctx, walletID)
			} else {
				categories, err = led.ActiveCategories(ctx, walletID)
			}
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'soquy categories bootstrap' to copy the master catalog."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Parent"))

			for _, cat := range categories {
				parent := ""
				if cat.ParentID != nil {
					parent = strconv.FormatInt(*cat.ParentID, 10)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cat.ID, cat.Type, cat.Name, parent)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "include inactive categories")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <wallet-id> <name>",
		Short: "Add a category to a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			walletID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wallet ID %q: %w", args[0], err)
			}

			typeStr, _ := cmd.Flags().GetString("type")
			categoryType, err := model.ParseTransactionType(typeStr)
			if err != nil {
				return err
			}

			description, _ := cmd.Flags().GetString("description")
			params := ledger.CategoryParams{
				WalletID:    walletID,
				Name:        args[1],
				Type:        categoryType,
				Description: description,
			}
			if parentID, _ := cmd.Flags().GetInt64("parent"); parentID != 0 {
				params.ParentID = &parentID
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category, err := led.CreateCategory(ctx, params)
			if err != nil {
				return friendly(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Created category %q (%s, ID %d)", category.Name, category.Type, category.ID)))
			return nil
		},
	}

	cmd.Flags().String("type", "EXPENSE", "transaction type (INCOME, EXPENSE, LEND, BORROW)")
	cmd.Flags().Int64("parent", 0, "parent category ID")
	cmd.Flags().String("description", "", "category description")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category",
		Long:  `Delete a category. Fails if any transaction still references it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categoryID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category ID %q: %w", args[0], err)
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := led.DeleteCategory(ctx, categoryID); err != nil {
				return friendly(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %d", categoryID)))
			return nil
		},
	}
}

func bootstrapCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap <wallet-id>",
		Short: "Copy the master catalog into a wallet",
		Long: `Materialize the master category templates into a wallet that has no
categories yet. A wallet that already has categories is left untouched.`,
		Args: cobra.ExactArgs(1),
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

			created, err := led.BootstrapCategories(ctx, walletID)
			if err != nil {
				return friendly(err)
			}

			if created == 0 {
				fmt.Println(cli.InfoStyle.Render("Wallet already has categories; nothing to do."))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %d categories from templates", created)))
			return nil
		},
	}
}
