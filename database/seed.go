package database

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ingestdomain "chatvendas/internal/ingest/domain"
)

// DemoOptions paramètres du jeu de démonstration
type DemoOptions struct {
	Products int
	Vendors  int
	Sales    int
	Months   int
	End      time.Time
	Seed     int64
}

// DefaultDemoOptions 40 produits, 12 vendeurs, 2000 ventes sur 24 mois
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{Products: 40, Vendors: 12, Sales: 2000, Months: 24, End: time.Now(), Seed: 42}
}

var (
	demoCategories = []string{"Eletrônicos", "Informática", "Móveis", "Papelaria", "Esportes"}
	demoPrefixes   = map[string][]string{
		"Eletrônicos": {"Smartphone", "Fone", "TV", "Câmera", "Caixa de Som"},
		"Informática": {"Notebook", "Mouse", "Teclado", "Monitor", "Impressora"},
		"Móveis":      {"Cadeira", "Mesa", "Estante", "Sofá", "Luminária"},
		"Papelaria":   {"Caderno", "Caneta", "Agenda", "Mochila", "Estojo"},
		"Esportes":    {"Bola", "Raquete", "Bicicleta", "Halteres", "Tapete de Yoga"},
	}
	demoFirstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elaine", "Fábio", "Gabriela", "Hugo", "Íris", "João", "Karen", "Lucas"}
	demoRegions    = []string{"Norte", "Nordeste", "Centro-Oeste", "Sudeste", "Sul"}
)

// SeedDemoSources écrit trois fichiers sources au format d'entrée (séparateur ';',
// virgule décimale) dans dir
//
// Quelques lignes sont volontairement sales (vente orpheline, doublon, quantité
// négative, date absente, vendeur sans région) pour exercer le nettoyage.
func SeedDemoSources(dir string, opts DemoOptions) (ingestdomain.Sources, error) {
	fmt.Println("🌱 Génération des fichiers de démonstration...")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ingestdomain.Sources{}, fmt.Errorf("erreur création répertoire: %w", err)
	}
	if opts.End.IsZero() {
		opts.End = time.Now()
	}
	rnd := rand.New(rand.NewSource(opts.Seed))

	src := ingestdomain.Sources{
		Products: filepath.Join(dir, "produtos.csv"),
		Vendors:  filepath.Join(dir, "vendedores.csv"),
		Sales:    filepath.Join(dir, "vendas.csv"),
	}

	// 1. Produits
	prices, err := seedProducts(src.Products, opts.Products, rnd)
	if err != nil {
		return src, fmt.Errorf("erreur génération produtos: %w", err)
	}

	// 2. Vendeurs
	if err := seedVendors(src.Vendors, opts.Vendors, rnd); err != nil {
		return src, fmt.Errorf("erreur génération vendedores: %w", err)
	}

	// 3. Ventes
	if err := seedSales(src.Sales, opts, prices, rnd); err != nil {
		return src, fmt.Errorf("erreur génération vendas: %w", err)
	}

	return src, nil
}

// seedProducts génère les produits et retourne leurs prix unitaires
func seedProducts(path string, count int, rnd *rand.Rand) ([]float64, error) {
	fmt.Printf("   📦 Génération de %d produtos...\n", count)

	rows := [][]string{{"Id_Produto", "Nome_Produto", "Categoria", "R$_Unit"}}
	prices := make([]float64, count)
	for i := 0; i < count; i++ {
		category := demoCategories[rnd.Intn(len(demoCategories))]
		prefixes := demoPrefixes[category]
		prices[i] = float64(int((5+rnd.Float64()*1995)*100)) / 100
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%s %d", prefixes[rnd.Intn(len(prefixes))], i+1),
			category,
			decimalComma(prices[i]),
		})
	}
	if err := writeSemicolonCSV(path, rows); err != nil {
		return nil, err
	}

	fmt.Printf("   ✅ %d produtos criados\n", count)
	return prices, nil
}

// seedVendors génère les vendeurs; le dernier n'a pas de région
func seedVendors(path string, count int, rnd *rand.Rand) error {
	fmt.Printf("   👤 Génération de %d vendedores...\n", count)

	rows := [][]string{{"Id_Vendedor", "Nome_Vendedor", "Região"}}
	for i := 0; i < count; i++ {
		region := demoRegions[rnd.Intn(len(demoRegions))]
		if i == count-1 {
			region = ""
		}
		name := demoFirstNames[i%len(demoFirstNames)]
		if i >= len(demoFirstNames) {
			name = fmt.Sprintf("%s %d", name, i/len(demoFirstNames)+1)
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), name, region})
	}
	if err := writeSemicolonCSV(path, rows); err != nil {
		return err
	}

	fmt.Printf("   ✅ %d vendedores criados\n", count)
	return nil
}

// seedSales génère les ventes avec une tendance croissante par produit
func seedSales(path string, opts DemoOptions, prices []float64, rnd *rand.Rand) error {
	fmt.Printf("   🧾 Génération de %d vendas sur %d mois...\n", opts.Sales, opts.Months)

	start := opts.End.AddDate(0, -opts.Months, 0)
	span := opts.End.Sub(start)

	rows := [][]string{{"Id_Venda", "Id_Produto", "Id_Vendedor", "Quantidade", "Data_Venda", "R$_Unit", "R$_Total"}}
	for i := 0; i < opts.Sales; i++ {
		productIdx := rnd.Intn(len(prices))
		offset := time.Duration(rnd.Int63n(int64(span)))
		date := start.Add(offset)

		// plus de volume en fin de période
		progress := float64(offset) / float64(span)
		qty := 1 + rnd.Intn(3+int(progress*5))

		price := prices[productIdx]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(productIdx + 1),
			strconv.Itoa(1 + rnd.Intn(opts.Vendors)),
			strconv.Itoa(qty),
			date.Format("02/01/2006"),
			decimalComma(price),
			decimalComma(float64(qty) * price),
		})
	}

	next := opts.Sales + 1
	dirty := [][]string{
		{strconv.Itoa(next), strconv.Itoa(len(prices) + 99), "1", "1", opts.End.Format("02/01/2006"), "10,00", "10,00"},
		{strconv.Itoa(next + 1), "1", "1", "-2", opts.End.Format("02/01/2006"), decimalComma(prices[0]), ""},
		{strconv.Itoa(next + 2), "1", "1", "1", "", decimalComma(prices[0]), ""},
		rows[1],
	}
	rows = append(rows, dirty...)

	if err := writeSemicolonCSV(path, rows); err != nil {
		return err
	}

	fmt.Printf("   ✅ %d vendas criadas (%d linhas a limpar)\n", opts.Sales, len(dirty))
	return nil
}

func writeSemicolonCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func decimalComma(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}
