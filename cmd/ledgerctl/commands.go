package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"contractpay/internal/config"
	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/repositories"
	"contractpay/internal/seed"
	"contractpay/internal/services/report"
	"contractpay/internal/utils"
	"contractpay/internal/validation"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *config.Config, db *gorm.DB) error {
				if err := repositories.Migrate(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demonstration profiles, contracts and jobs into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *config.Config, db *gorm.DB) error {
				if err := repositories.Migrate(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				res, err := seed.Run(cmd.Context(), db)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				if res.Skipped {
					fmt.Fprintln(cmd.OutOrStdout(), "store already has profiles, nothing seeded")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d profiles, %d contracts, %d jobs\n",
					res.Profiles, res.Contracts, res.Jobs)
				return nil
			})
		},
	}
}

func reportCmd() *cobra.Command {
	var start, end string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run administrative reports against the store",
	}
	cmd.PersistentFlags().StringVar(&start, "start", "", "window start, YYYY-M-D (exclusive)")
	cmd.PersistentFlags().StringVar(&end, "end", "", "window end, YYYY-M-D (exclusive)")
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	run := func(cmd *cobra.Command, query func(ctx context.Context, svc report.Service, from, to time.Time) (interface{}, error)) error {
		from, to, err := validation.Period(start, end)
		if err != nil {
			return err
		}
		return withStore(func(_ *config.Config, db *gorm.DB) error {
			svc := report.NewService(repositories.NewReportRepository(db), nil, logger.NewNop())
			out, err := query(cmd.Context(), svc, from, to)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), out, asJSON)
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "best-profession",
		Short: "Profession that earned the most in the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc report.Service, from, to time.Time) (interface{}, error) {
				return svc.BestProfession(ctx, from, to)
			})
		},
	})

	clients := &cobra.Command{
		Use:   "best-clients",
		Short: "Clients that paid the most in the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc report.Service, from, to time.Time) (interface{}, error) {
				return svc.BestClients(ctx, from, to, limit)
			})
		},
	}
	clients.Flags().IntVarP(&limit, "limit", "n", report.DefaultClientLimit, "maximum clients")
	cmd.AddCommand(clients)

	return cmd
}

// writeReport prints a report result as indented JSON or as an aligned table.
func writeReport(w io.Writer, out interface{}, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch rows := out.(type) {
	case *models.ProfessionEarnings:
		fmt.Fprintln(tw, "PROFESSION\tEARNED")
		fmt.Fprintf(tw, "%s\t%s\n", rows.Profession, rows.Total.StringFixed(2))
	case []models.ClientSpend:
		fmt.Fprintln(tw, "ID\tNAME\tPROFESSION\tPAID")
		for _, row := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.ID, row.FullName(), row.Profession, row.Total.StringFixed(2))
		}
	default:
		return fmt.Errorf("unsupported report result %T", out)
	}
	return tw.Flush()
}

func tokenCmd() *cobra.Command {
	var profileID uint
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a profile (development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(cfg *config.Config, db *gorm.DB) error {
				if cfg.IsProduction() {
					return fmt.Errorf("refusing to mint tokens in production")
				}
				profile, err := repositories.NewProfileRepository(db).GetByID(cmd.Context(), profileID)
				if err != nil {
					return err
				}
				token, err := utils.GenerateToken(cfg.Auth.JWTSecret, profile, ttl)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	cmd.Flags().UintVarP(&profileID, "profile", "p", 0, "profile id")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func hashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Print a bcrypt hash for ADMIN_KEY_HASH, generating a key when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			} else {
				generated, err := utils.GenerateSecureCode()
				if err != nil {
					return err
				}
				key = generated
				fmt.Fprintf(os.Stderr, "admin key: %s\n", key)
			}

			hash, err := utils.HashSecret(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
