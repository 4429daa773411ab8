package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fennelpay/ledger-go/pkg/ledger"
	"github.com/fennelpay/ledger-go/pkg/ledger/boletoholmes"
)

// NewHolmesCommand creates the boleto investigation command group.
func NewHolmesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "holmes",
		Aliases: []string{"boleto-holmes"},
		Short:   "Investigate boletos",
		Long:    "Create and inspect boleto investigations against the central registry",
	}

	cmd.AddCommand(newHolmesListCommand())
	cmd.AddCommand(newHolmesGetCommand())
	cmd.AddCommand(newHolmesCreateCommand())
	cmd.AddCommand(newHolmesLogsCommand())

	return cmd
}

func newHolmesListCommand() *cobra.Command {
	var (
		limit  int
		status string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List investigations",
		Long:  "List boleto investigations matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			query, err := buildQuery(limit, status, tags, "", "")
			if err != nil {
				return err
			}

			holmes, err := boletoholmes.Query(context.Background(), query, cred).All()
			if err != nil {
				return fmt.Errorf("listing investigations: %w", err)
			}

			return renderWith(holmes, renderHolmesTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of investigations (0 = all)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (solving, solved)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "filter by tags (all must match)")

	return cmd
}

func newHolmesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get HOLMES_ID",
		Short: "Get investigation details",
		Long:  "Display detailed information about a single boleto investigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			holmes, err := boletoholmes.Get(context.Background(), args[0], cred)
			if err != nil {
				return fmt.Errorf("fetching investigation: %w", err)
			}

			return renderWith(holmes, func(holmes *boletoholmes.BoletoHolmes) error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("ID", holmes.ID)
				_ = table.Append("Boleto", holmes.BoletoID)
				_ = table.Append("Status", holmes.Status)
				_ = table.Append("Result", orNotAvailable(holmes.Result))
				_ = table.Append("Tags", joinTags(holmes.Tags))
				_ = table.Append("Created", formatTime(holmes.Created))
				_ = table.Append("Updated", formatTime(holmes.Updated))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			})
		},
	}
}

func newHolmesCreateCommand() *cobra.Command {
	var (
		boletoID string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an investigation",
		Long:  "Start an investigation into a boleto's current registry status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if boletoID == "" {
				return ErrBoletoIDRequired
			}

			cred, err := loadCredential()
			if err != nil {
				return err
			}

			created, err := boletoholmes.Create(context.Background(), []boletoholmes.BoletoHolmes{{
				BoletoID: boletoID,
				Tags:     tags,
			}}, cred)
			if err != nil {
				return fmt.Errorf("creating investigation: %w", err)
			}

			return renderWith(created, renderHolmesTable)
		},
	}

	cmd.Flags().StringVar(&boletoID, "boleto-id", "", "boleto to investigate")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags for later filtering")

	return cmd
}

func newHolmesLogsCommand() *cobra.Command {
	var (
		limit     int
		holmesIDs []string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List investigation logs",
		Long:  "List the state changes investigations have gone through",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}

			query := ledger.NewQuery().WithLimit(limit)
			if len(holmesIDs) > 0 {
				query = boletoholmes.WithHolmesIDs(query, holmesIDs...)
			}

			logs, err := boletoholmes.QueryLogs(context.Background(), query, cred).All()
			if err != nil {
				return fmt.Errorf("listing investigation logs: %w", err)
			}

			return renderWith(logs, func(logs []boletoholmes.Log) error {
				if len(logs) == 0 {
					_, _ = os.Stdout.WriteString("No investigation logs found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Type", "Holmes", "Created")

				for _, log := range logs {
					holmesID := ""
					if log.Holmes != nil {
						holmesID = log.Holmes.ID
					}

					_ = table.Append(log.ID, log.Type, holmesID, formatTime(log.Created))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of logs (0 = all)")
	cmd.Flags().StringSliceVar(&holmesIDs, "holmes-ids", nil, "only logs of these investigations")

	return cmd
}

func renderHolmesTable(holmes []boletoholmes.BoletoHolmes) error {
	if len(holmes) == 0 {
		_, _ = os.Stdout.WriteString("No investigations found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Boleto", "Status", "Result", "Created")

	for _, investigation := range holmes {
		_ = table.Append(investigation.ID, investigation.BoletoID, investigation.Status,
			orNotAvailable(investigation.Result), formatTime(investigation.Created))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return nil
}
