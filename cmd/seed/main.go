package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chatvendas/database"
	"chatvendas/internal/app"
	"chatvendas/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		demo    bool
		demoDir string
		opts    = database.DefaultDemoOptions()
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Valide, nettoie, persiste et exporte les fichiers de ventes",
		Long: `Lit produtos, vendedores et vendas, applique les règles de nettoyage,
remplace les tables de la base et écrit les tables nettoyées (csv, xlsx, parquet).

Avec --demo, des fichiers sources de démonstration sont d'abord générés.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger(os.Stderr)

			if demo {
				src, err := database.SeedDemoSources(demoDir, opts)
				if err != nil {
					return err
				}
				cfg.Sources = config.SourcesConfig{Products: src.Products, Vendors: src.Vendors, Sales: src.Sales}
			}

			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("❌ Erreur connexion DB: %w", err)
			}
			defer a.Close()
			fmt.Printf("✅ Connexion %s établie\n", cfg.Database.Driver)

			fmt.Println("🌱 Démarrage de l'ingestion...")
			fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			report, err := a.Ingest(cmd.Context())
			if err != nil {
				return fmt.Errorf("❌ Erreur lors de l'ingestion: %w", err)
			}

			for _, line := range report.Audit.Lines() {
				fmt.Println("   " + line)
			}
			for _, p := range report.Exported {
				fmt.Println("   💾 " + p)
			}

			fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			fmt.Printf("✅ Ingestion %s terminée en %s\n", report.RunID, report.Duration.Round(time.Millisecond))
			fmt.Println()
			fmt.Println("Vous pouvez maintenant poser une question avec:")
			fmt.Println(`  go run ./cmd/ask "top 5 produtos"`)
			fmt.Println()
			fmt.Println("Ou démarrer l'API:")
			fmt.Println("  go run .")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "fichier de configuration YAML")
	cmd.Flags().BoolVar(&demo, "demo", false, "générer des fichiers sources de démonstration")
	cmd.Flags().StringVar(&demoDir, "demo-dir", "data", "répertoire des fichiers de démonstration")
	cmd.Flags().IntVar(&opts.Sales, "demo-sales", opts.Sales, "nombre de ventes générées")
	cmd.Flags().Int64Var(&opts.Seed, "demo-seed", opts.Seed, "graine du générateur")
	config.RegisterFlags(cmd.Flags())
	return cmd
}
