package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fennelpay/ledger-go/pkg/ledger/transaction"
)

// NewTransactionsCommand creates the transactions command group.
func NewTransactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"transaction", "txn"},
		Short:   "Manage ledger transactions",
		Long:    "Create and inspect transactions that move balance between accounts",
	}

	cmd.AddCommand(newTransactionsListCommand())
	cmd.AddCommand(newTransactionsGetCommand())
	cmd.AddCommand(newTransactionsCreateCommand())

	return cmd
}

func newTransactionsListCommand() *cobra.Command {
	var (
		limit         int
		status        string
		tags          []string
		after, before string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  "List transactions matching the given filters, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			query, err := buildQuery(limit, status, tags, after, before)
			if err != nil {
				return err
			}

			transactions, err := transaction.Query(context.Background(), query, cred).All()
			if err != nil {
				return fmt.Errorf("listing transactions: %w", err)
			}

			return renderWith(transactions, renderTransactionTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of transactions (0 = all)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "filter by tags (all must match)")
	cmd.Flags().StringVar(&after, "after", "", "only transactions created on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&before, "before", "", "only transactions created on or before this date (YYYY-MM-DD)")

	return cmd
}

func newTransactionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TRANSACTION_ID",
		Short: "Get transaction details",
		Long:  "Display detailed information about a single transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			txn, err := transaction.Get(context.Background(), args[0], cred)
			if err != nil {
				return fmt.Errorf("fetching transaction: %w", err)
			}

			return renderWith(txn, func(txn *transaction.Transaction) error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("ID", txn.ID)
				_ = table.Append("Amount", formatCents(txn.Amount))
				_ = table.Append("Fee", formatCents(txn.Fee))
				_ = table.Append("Description", txn.Description)
				_ = table.Append("External ID", txn.ExternalID)
				_ = table.Append("Sender", txn.SenderID)
				_ = table.Append("Receiver", txn.ReceiverID)
				_ = table.Append("Source", orNotAvailable(txn.Source))
				_ = table.Append("Tags", joinTags(txn.Tags))
				_ = table.Append("Created", formatTime(txn.Created))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			})
		},
	}
}

func newTransactionsCreateCommand() *cobra.Command {
	var (
		amount      int
		description string
		externalID  string
		receiverID  string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a transaction",
		Long:  "Create a transaction debiting the workspace and crediting the receiver",
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount <= 0 {
				return ErrAmountRequired
			}

			if receiverID == "" {
				return ErrReceiverRequired
			}

			cred, err := loadCredential()
			if err != nil {
				return err
			}

			created, err := transaction.Create(context.Background(), []transaction.Transaction{{
				Amount:      amount,
				Description: description,
				ExternalID:  externalID,
				ReceiverID:  receiverID,
				Tags:        tags,
			}}, cred)
			if err != nil {
				return fmt.Errorf("creating transaction: %w", err)
			}

			return renderWith(created, renderTransactionTable)
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "amount to transfer, in cents")
	cmd.Flags().StringVar(&description, "description", "", "description shown on both statements")
	cmd.Flags().StringVar(&externalID, "external-id", "", "idempotency key for the creation")
	cmd.Flags().StringVar(&receiverID, "receiver", "", "account to credit")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags for later filtering")

	return cmd
}

func renderTransactionTable(transactions []transaction.Transaction) error {
	if len(transactions) == 0 {
		_, _ = os.Stdout.WriteString("No transactions found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Amount", "Fee", "Description", "Receiver", "Created")

	for _, txn := range transactions {
		_ = table.Append(txn.ID, formatCents(txn.Amount), formatCents(txn.Fee),
			txn.Description, txn.ReceiverID, formatTime(txn.Created))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return nil
}
