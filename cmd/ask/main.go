package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chatvendas/internal/app"
	"chatvendas/internal/config"
	salesinfra "chatvendas/internal/sales/infrastructure"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		asJSON  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   `ask "<pergunta>"`,
		Short: "Répond à une question sur l'instantané persisté",
		Example: `  ask "top 5 produtos"
  ask "previsão de vendas do produto 3 para os próximos 2 trimestres"
  ask --resumo`,
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if summary {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			// la CLI n'écrit que des images, jamais d'export
			cfg.Export.Enabled = false

			a, err := app.New(cmd.Context(), cfg, cfg.Log.NewLogger(os.Stderr))
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if summary {
				s, err := a.Stats.GetSummary(cmd.Context())
				if err != nil {
					return err
				}
				shares, err := a.Stats.GetCategoryDistribution(cmd.Context())
				if err != nil {
					return err
				}
				renderSummary(out, s, shares)
				return nil
			}

			if err := a.LoadStored(cmd.Context()); err != nil {
				if errors.Is(err, salesinfra.ErrNoCleanData) {
					return errors.New("aucune donnée nettoyée: lancez d'abord seed")
				}
				return err
			}

			resp, err := a.Service.Answer(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			renderResponse(out, resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "fichier de configuration YAML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "afficher la réponse JSON brute")
	cmd.Flags().BoolVar(&summary, "resumo", false, "afficher le résumé SQL des tables persistées")
	config.RegisterFlags(cmd.Flags())
	return cmd
}
