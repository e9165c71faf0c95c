package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lexora/lexora-server/access"
	"github.com/lexora/lexora-server/ai"
	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/internal/config"
	"github.com/lexora/lexora-server/store"
	"github.com/lexora/lexora-server/users"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// withStore opens and migrates the database for the duration of fn.
func withStore(cmd *cobra.Command, c config.Config, fn func(ctx context.Context, db *store.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}

func newMigrateCommand(configFn func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configFn(), func(ctx context.Context, db *store.Store) error {
				log.Info().Str("driver", db.Driver()).Msg("database migrated")
				return nil
			})
		},
	}
}

func newSubscriptionsCommand(configFn func() config.Config) *cobra.Command {
	subscriptions := &cobra.Command{
		Use:     "subscriptions",
		Short:   "Inspect and repair lawyer subscription plans",
		Aliases: []string{"subs"},
	}

	audit := &cobra.Command{
		Use:   "audit",
		Short: "Report each lawyer's plan and whether the AI analyzer is available to them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configFn(), func(ctx context.Context, db *store.Store) error {
				records, err := db.Plans().ListPlans(ctx)
				if err != nil {
					return err
				}
				policy := access.SubscriptionGated(db.Plans())

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "EMAIL\tTIER\tSTATUS\tVERIFIED\tAI ANALYZER\tRESTRICTIONS")
				for _, record := range records {
					decision := policy.Check(ctx, auth.Identity{ID: record.Plan.UserID, Role: users.RoleLawyer}, access.FeatureAIAnalyzer)
					analyzer := "allowed"
					if !decision.Allowed {
						analyzer = "denied (" + decision.Reason + ")"
					}
					restrictions := record.RawRestrictions
					if record.InvalidRestrictions {
						restrictions = "INVALID: " + restrictions
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n",
						record.Email, record.Plan.SubscriptionTier, record.Plan.SubscriptionStatus,
						record.Plan.IsVerified, analyzer, restrictions)
				}
				return w.Flush()
			})
		},
	}

	var confirm bool
	grantAll := &cobra.Command{
		Use:   "grant-all",
		Short: "Enable every feature for every lawyer and mark them verified",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("grant-all rewrites every lawyer plan; pass --yes to continue")
			}
			return withStore(cmd, configFn(), func(ctx context.Context, db *store.Store) error {
				updated, err := db.Plans().GrantAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d lawyer plans\n", updated)
				return nil
			})
		},
	}
	grantAll.Flags().BoolVar(&confirm, "yes", false, "confirm the update")

	subscriptions.AddCommand(audit, grantAll)
	return subscriptions
}

func newUsersCommand(configFn func() config.Config) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:     "users",
		Short:   "Manage accounts",
		Aliases: []string{"user"},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, _ := cmd.Flags().GetInt("offset")
			limit, _ := cmd.Flags().GetInt("limit")
			return withStore(cmd, configFn(), func(ctx context.Context, db *store.Store) error {
				accounts, err := db.Users().List(ctx, offset, limit)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tCREATED")
				for _, u := range accounts {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, u.CreatedAt.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}
	list.Flags().Int("offset", 0, "rows to skip")
	list.Flags().Int("limit", 50, "maximum rows")

	setRole := &cobra.Command{
		Use:   "set-role <user-id> <user|lawyer|admin>",
		Short: "Change an account's role; it applies from the next login",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := users.ParseRole(args[1])
			if err != nil {
				return err
			}
			return withStore(cmd, configFn(), func(ctx context.Context, db *store.Store) error {
				if err := db.Users().SetRole(ctx, args[0], role); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s is now %s\n", args[0], role)
				return nil
			})
		},
	}

	usersCmd.AddCommand(list, setRole)
	return usersCmd
}

func newAICommand(configFn func() config.Config) *cobra.Command {
	aiCmd := &cobra.Command{
		Use:   "ai",
		Short: "AI provider tools",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Send a minimal prompt to the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			completer, err := ai.NewCompleter(configFn())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			reply, err := ai.NewService(completer, nil).Check(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", completer.Name(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s replied: %q\n", completer.Name(), reply)
			return nil
		},
	}

	aiCmd.AddCommand(check)
	return aiCmd
}
