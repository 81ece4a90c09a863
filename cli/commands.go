// Package cli provides the Cobra-based presentation layer for papeleria.
// It owns the boundary between the public 1-based product IDs and the
// store's 0-based indices; nothing below this package sees a 1-based ID.
package cli

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrBrian04/PapeleriaApp/domain"
	"github.com/MrBrian04/PapeleriaApp/format"
	"github.com/MrBrian04/PapeleriaApp/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "papeleria",
		Short: "Inventory tracker for a stationery resale business",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// IMPORTANT: allow tests to inject store
			if productStore != nil {
				return nil
			}

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			lvl, lvlErr := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
			if lvlErr != nil || lvl == zerolog.NoLevel {
				lvl = zerolog.InfoLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
				With().Timestamp().Logger().Level(lvl)

			var err error
			productStore, err = store.NewStore(
				viper.GetString("store"),
				viper.GetString("store-file"),
				logger,
			)
			return err
		},
	}

	productStore domain.ProductStore
	logger       zerolog.Logger
)

// parseID converts a human 1-based ID to the store's 0-based index.
func parseID(arg string) (int, bool) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, false
	}
	return id - 1, true
}

func rowFor(id int, p domain.Product) domain.ExportRow {
	return domain.ExportRow{
		ID:          id,
		Name:        p.Name,
		TotalCost:   p.TotalCost,
		Quantity:    p.Quantity,
		UnitCost:    p.UnitCost,
		SalePrice:   p.SalePrice,
		UnitProfit:  p.UnitProfit,
		TotalProfit: p.TotalProfit,
		Date:        p.Date,
	}
}

func renderRow(row domain.ExportRow) string {
	return fmt.Sprintf("%d | %s | %s | %d | %s | %s | %s | %s | %s",
		row.ID, row.Name,
		format.Pesos(row.TotalCost), row.Quantity,
		format.Pesos(row.UnitCost), format.Pesos(row.SalePrice),
		format.Pesos(row.UnitProfit), format.Pesos(row.TotalProfit),
		row.Date)
}

// printMatches renders search results with their real 1-based IDs. Results
// preserve collection order, so a single forward scan lines them up, and
// duplicate products still map to distinct IDs.
func printMatches(matches []domain.Product) {
	all := productStore.List()
	next := 0
	for i, p := range all {
		if next < len(matches) && p == matches[next] {
			fmt.Println(renderRow(rowFor(i+1, p)))
			next++
		}
	}
}

func displayDate(date string) string {
	if date == "" {
		return time.Now().Format(domain.DateLayout)
	}
	return date
}

// reportMutationErr separates the two error families a mutation can surface:
// a storage error means the change is live in memory but unsaved (warn and
// keep going), anything else is a validation rejection (fail the command).
func reportMutationErr(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsStorageError(err) {
		fmt.Fprintln(os.Stderr, err)
		return nil
	}
	return err
}

func init() {
	// shell
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("papeleria> ")
				line, err := r.ReadString('\n')
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}
				rootCmd.SetArgs(strings.Fields(line))
				if err := rootCmd.Execute(); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				rootCmd.SetArgs(nil)
			}
		},
	}
	rootCmd.AddCommand(shellCmd)

	rootCmd.PersistentFlags().String("store", "file", "store backend: file|memory")
	rootCmd.PersistentFlags().String("store-file", "db/productos.json", "file store path")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store-file", rootCmd.PersistentFlags().Lookup("store-file"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("PAPELERIA")
	viper.AutomaticEnv()

	// add
	var name string
	var totalCost, salePrice float64
	var quantity int
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a product batch (dated today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := productStore.Add(name, totalCost, quantity, salePrice)
			if err != nil {
				if !domain.IsStorageError(err) {
					logger.Error().Err(err).Str("name", name).Msg("add rejected")
				}
				if err = reportMutationErr(err); err != nil {
					return err
				}
			}
			id := len(productStore.List())
			logger.Info().Int("id", id).Str("name", p.Name).Msg("product added")
			fmt.Println(renderRow(rowFor(id, p)))
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "product name")
	addCmd.Flags().Float64Var(&totalCost, "total-cost", 0, "total paid for the batch")
	addCmd.Flags().IntVar(&quantity, "quantity", 0, "units in the batch")
	addCmd.Flags().Float64Var(&salePrice, "sale-price", 0, "per-unit sale price")
	rootCmd.AddCommand(addCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, ok := parseID(args[0])
			if !ok {
				fmt.Fprintf(os.Stderr, "invalid id: %s\n", args[0])
				return nil
			}
			p, ok := productStore.Get(index)
			if !ok {
				fmt.Fprintf(os.Stderr, "product %s not found\n", args[0])
				return nil
			}
			fmt.Println(renderRow(rowFor(index+1, p)))
			return nil
		},
	}
	rootCmd.AddCommand(getCmd)

	// update
	var uName, uDate string
	var uTotalCost, uSalePrice float64
	var uQuantity int
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a product; its date is preserved unless --date is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, ok := parseID(args[0])
			if !ok {
				fmt.Fprintf(os.Stderr, "invalid id: %s\n", args[0])
				return nil
			}
			orig, ok := productStore.Get(index)
			if !ok {
				fmt.Fprintf(os.Stderr, "product %s not found\n", args[0])
				return nil
			}

			name, totalCost, quantity, salePrice, date :=
				orig.Name, orig.TotalCost, orig.Quantity, orig.SalePrice, orig.Date
			if cmd.Flags().Changed("name") {
				name = uName
			}
			if cmd.Flags().Changed("total-cost") {
				totalCost = uTotalCost
			}
			if cmd.Flags().Changed("quantity") {
				quantity = uQuantity
			}
			if cmd.Flags().Changed("sale-price") {
				salePrice = uSalePrice
			}
			if cmd.Flags().Changed("date") {
				date = uDate
			}

			replaced, err := productStore.Update(index, name, totalCost, quantity, salePrice, date)
			if err != nil {
				if !domain.IsStorageError(err) {
					logger.Error().Err(err).Int("id", index+1).Msg("update rejected")
				}
				if err = reportMutationErr(err); err != nil {
					return err
				}
			}
			if !replaced {
				fmt.Fprintf(os.Stderr, "product %s not found\n", args[0])
				return nil
			}
			p, _ := productStore.Get(index)
			logger.Info().Int("id", index+1).Str("name", p.Name).Msg("product updated")
			fmt.Println(renderRow(rowFor(index+1, p)))
			return nil
		},
	}
	updateCmd.Flags().StringVar(&uName, "name", "", "product name")
	updateCmd.Flags().Float64Var(&uTotalCost, "total-cost", 0, "total paid for the batch")
	updateCmd.Flags().IntVar(&uQuantity, "quantity", 0, "units in the batch")
	updateCmd.Flags().Float64Var(&uSalePrice, "sale-price", 0, "per-unit sale price")
	updateCmd.Flags().StringVar(&uDate, "date", "", "date (YYYY-MM-DD)")
	rootCmd.AddCommand(updateCmd)

	// list
	var lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all products",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := productStore.ExportRows()
			if lOutput == "json" {
				b, _ := json.MarshalIndent(rows, "", "  ")
				fmt.Println(string(b))
				return nil
			}
			for _, row := range rows {
				fmt.Println(renderRow(row))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format")
	rootCmd.AddCommand(listCmd)

	// delete
	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, ok := parseID(args[0])
			if !ok {
				fmt.Fprintf(os.Stderr, "invalid id: %s\n", args[0])
				return nil
			}
			if !force {
				fmt.Printf("Delete %s? (y/N): ", args[0])
				var resp string
				if _, err := fmt.Scanln(&resp); err != nil || (resp != "y" && resp != "Y") {
					fmt.Println("aborted")
					return nil
				}
			}
			removed, err := productStore.Delete(index)
			if err = reportMutationErr(err); err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(os.Stderr, "product %s not found\n", args[0])
				return nil
			}
			logger.Info().Int("id", index+1).Msg("product deleted")
			fmt.Println("deleted")
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	rootCmd.AddCommand(deleteCmd)

	// search
	searchCmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find products by name substring (case-insensitive) or exact date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printMatches(productStore.Search(args[0]))
			return nil
		},
	}
	rootCmd.AddCommand(searchCmd)

	// search-date
	searchDateCmd := &cobra.Command{
		Use:   "search-date <date>",
		Short: "Find products registered on an exact date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printMatches(productStore.SearchByDate(args[0]))
			return nil
		},
	}
	rootCmd.AddCommand(searchDateCmd)

	// invest
	var investDate string
	investCmd := &cobra.Command{
		Use:   "invest",
		Short: "Total invested on a date (default today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			total := productStore.TotalInvestment(investDate)
			fmt.Printf("Total investment for %s: %s\n", displayDate(investDate), format.Pesos(total))
			return nil
		},
	}
	investCmd.Flags().StringVar(&investDate, "date", "", "date (YYYY-MM-DD)")
	rootCmd.AddCommand(investCmd)

	// profit
	var profitDate string
	profitCmd := &cobra.Command{
		Use:   "profit",
		Short: "Total profit on a date (default today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			total := productStore.TotalProfitFor(profitDate)
			fmt.Printf("Total profit for %s: %s\n", displayDate(profitDate), format.Pesos(total))
			return nil
		},
	}
	profitCmd.Flags().StringVar(&profitDate, "date", "", "date (YYYY-MM-DD)")
	rootCmd.AddCommand(profitCmd)

	// import (supports JSON array and NDJSON)
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Import products from JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}

			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}

			btrim := bytes.TrimSpace(b)
			if len(btrim) == 0 {
				return errors.New("empty file")
			}

			var records []domain.Record

			// JSON array
			if btrim[0] == '[' {
				if err := json.Unmarshal(btrim, &records); err != nil {
					return err
				}
			} else {
				// NDJSON or single JSON object
				scanner := bufio.NewScanner(bytes.NewReader(btrim))
				for scanner.Scan() {
					line := bytes.TrimSpace(scanner.Bytes())
					if len(line) == 0 {
						continue
					}
					var r domain.Record
					if err := json.Unmarshal(line, &r); err != nil {
						return err
					}
					records = append(records, r)
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}

			return productStore.Import(records)
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	rootCmd.AddCommand(importCmd)

	// export
	var exportFile string
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export products to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			f, err := os.Create(exportFile)
			if err != nil {
				return err
			}
			defer f.Close()

			w := csv.NewWriter(f)
			header := []string{"id", "name", "total_cost", "quantity", "unit_cost",
				"sale_price", "unit_profit", "total_profit", "date"}
			if err := w.Write(header); err != nil {
				return err
			}
			for _, row := range productStore.ExportRows() {
				rec := []string{
					strconv.Itoa(row.ID),
					row.Name,
					strconv.FormatFloat(row.TotalCost, 'f', 2, 64),
					strconv.Itoa(row.Quantity),
					strconv.FormatFloat(row.UnitCost, 'f', 2, 64),
					strconv.FormatFloat(row.SalePrice, 'f', 2, 64),
					strconv.FormatFloat(row.UnitProfit, 'f', 2, 64),
					strconv.FormatFloat(row.TotalProfit, 'f', 2, 64),
					row.Date,
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	rootCmd.AddCommand(exportCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
