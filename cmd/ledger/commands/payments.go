package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fennelpay/ledger-go/pkg/ledger"
	"github.com/fennelpay/ledger-go/pkg/ledger/brcodepayment"
)

// NewPaymentsCommand creates the BR-code payments command group.
func NewPaymentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment", "brcode-payments"},
		Short:   "Manage BR-code payments",
		Long:    "Create and inspect BR-code (Pix) payments made from the workspace balance",
	}

	cmd.AddCommand(newPaymentsListCommand())
	cmd.AddCommand(newPaymentsGetCommand())
	cmd.AddCommand(newPaymentsCreateCommand())
	cmd.AddCommand(newPaymentsLogsCommand())

	return cmd
}

func newPaymentsListCommand() *cobra.Command {
	var (
		limit         int
		status        string
		tags          []string
		after, before string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments",
		Long:  "List BR-code payments matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			query, err := buildQuery(limit, status, tags, after, before)
			if err != nil {
				return err
			}

			payments, err := brcodepayment.Query(context.Background(), query, cred).All()
			if err != nil {
				return fmt.Errorf("listing payments: %w", err)
			}

			return renderWith(payments, renderPaymentTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of payments (0 = all)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (created, processing, success, failed)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "filter by tags (all must match)")
	cmd.Flags().StringVar(&after, "after", "", "only payments created on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&before, "before", "", "only payments created on or before this date (YYYY-MM-DD)")

	return cmd
}

func newPaymentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PAYMENT_ID",
		Short: "Get payment details",
		Long:  "Display detailed information about a single BR-code payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			payment, err := brcodepayment.Get(context.Background(), args[0], cred)
			if err != nil {
				return fmt.Errorf("fetching payment: %w", err)
			}

			return renderWith(payment, func(payment *brcodepayment.BrcodePayment) error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("ID", payment.ID)
				_ = table.Append("Status", payment.Status)
				_ = table.Append("Type", orNotAvailable(payment.Type))
				_ = table.Append("Beneficiary", orNotAvailable(payment.Name))
				_ = table.Append("Tax ID", orNotAvailable(payment.TaxID))
				_ = table.Append("Amount", formatCents(payment.Amount))
				_ = table.Append("Fee", formatCents(payment.Fee))
				_ = table.Append("Description", orNotAvailable(payment.Description))
				_ = table.Append("Scheduled", formatTime(payment.Scheduled))
				_ = table.Append("Created", formatTime(payment.Created))
				_ = table.Append("Updated", formatTime(payment.Updated))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			})
		},
	}
}

func newPaymentsCreateCommand() *cobra.Command {
	var (
		brcode      string
		taxID       string
		description string
		amount      int
		scheduled   string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Pay a BR code",
		Long:  "Create a BR-code payment from the workspace balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if brcode == "" {
				return ErrBrcodeRequired
			}

			cred, err := loadCredential()
			if err != nil {
				return err
			}

			payment := brcodepayment.BrcodePayment{
				Brcode:      brcode,
				TaxID:       taxID,
				Description: description,
				Amount:      amount,
				Tags:        tags,
			}

			if scheduled != "" {
				parsed, err := time.Parse(time.RFC3339, scheduled)
				if err != nil {
					return fmt.Errorf("parsing --scheduled: %w", err)
				}

				payment.Scheduled = &parsed
			}

			created, err := brcodepayment.Create(context.Background(),
				[]brcodepayment.BrcodePayment{payment}, cred)
			if err != nil {
				return fmt.Errorf("creating payment: %w", err)
			}

			return renderWith(created, renderPaymentTable)
		},
	}

	cmd.Flags().StringVar(&brcode, "brcode", "", "BR code to pay")
	cmd.Flags().StringVar(&taxID, "tax-id", "", "beneficiary tax ID, for verification")
	cmd.Flags().StringVar(&description, "description", "", "description shown on the statement")
	cmd.Flags().IntVar(&amount, "amount", 0, "amount override, in cents (0 = use the BR code's amount)")
	cmd.Flags().StringVar(&scheduled, "scheduled", "", "delay execution until this instant (RFC 3339)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags for later filtering")

	return cmd
}

func newPaymentsLogsCommand() *cobra.Command {
	var (
		limit      int
		paymentIDs []string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List payment logs",
		Long:  "List the state changes payments have gone through",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			query := ledger.NewQuery().WithLimit(limit)
			if len(paymentIDs) > 0 {
				query = brcodepayment.WithPaymentIDs(query, paymentIDs...)
			}

			logs, err := brcodepayment.QueryLogs(context.Background(), query, cred).All()
			if err != nil {
				return fmt.Errorf("listing payment logs: %w", err)
			}

			return renderWith(logs, func(logs []brcodepayment.Log) error {
				if len(logs) == 0 {
					_, _ = os.Stdout.WriteString("No payment logs found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Type", "Payment", "Errors", "Created")

				for _, log := range logs {
					paymentID := ""
					if log.Payment != nil {
						paymentID = log.Payment.ID
					}

					_ = table.Append(log.ID, log.Type, paymentID,
						joinTags(log.Errors), formatTime(log.Created))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of logs (0 = all)")
	cmd.Flags().StringSliceVar(&paymentIDs, "payment-ids", nil, "only logs of these payments")

	return cmd
}

func renderPaymentTable(payments []brcodepayment.BrcodePayment) error {
	if len(payments) == 0 {
		_, _ = os.Stdout.WriteString("No payments found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Status", "Beneficiary", "Amount", "Fee", "Created")

	for _, payment := range payments {
		_ = table.Append(payment.ID, payment.Status, orNotAvailable(payment.Name),
			formatCents(payment.Amount), formatCents(payment.Fee), formatTime(payment.Created))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return nil
}
