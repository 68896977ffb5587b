package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/internal/service"
)

func apikeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}
	cmd.AddCommand(apikeyCreateCmd())
	return cmd
}

func apikeyCreateCmd() *cobra.Command {
	var (
		org   string
		name  string
		limit int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new API key; the secret is printed once",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer rt.close()

			svc := service.NewAPIKeyService(repository.NewAPIKeyRepository(rt.db), rt.cfg.APIKey.BcryptCost, rt.logger)
			issued, err := svc.Create(context.Background(), org, name, limit)
			if err != nil {
				return err
			}

			cmd.Printf("id:     %s\n", issued.Key.ID)
			cmd.Printf("org:    %s\n", issued.Key.OrganizationID)
			cmd.Printf("limit:  %s\n", describeLimit(issued.Key.DailyLimit))
			cmd.Printf("secret: %s\n", issued.Secret)
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "organization id")
	cmd.Flags().StringVar(&name, "name", "", "label for the key")
	cmd.Flags().Int64Var(&limit, "limit", 1000, "requests per UTC day, -1 for unlimited")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func describeLimit(limit int64) string {
	if limit == model.UnlimitedDailyLimit {
		return "unlimited"
	}
	return fmt.Sprintf("%d/day", limit)
}
