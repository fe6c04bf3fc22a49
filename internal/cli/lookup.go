package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/foodfacts"

	"github.com/spf13/cobra"
)

var (
	lookupJSON    bool
	lookupBaseURL string
)

// lookupCmd queries Open Food Facts directly, bypassing the pantry.
var lookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Look up a packaged food by barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()

		// --base-url points the client at a mirror or a test server
		if lookupBaseURL != "" {
			cfg.FoodFacts.BaseURL = lookupBaseURL
		}
		client := foodfacts.NewClient(cfg.FoodFacts)

		p, err := client.Product(cmd.Context(), args[0])
		if errors.Is(err, foodfacts.ErrProductNotFound) {
			return fmt.Errorf("no product found for barcode %s", args[0])
		}
		if err != nil {
			return err
		}

		if lookupJSON {
			b, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		printProduct(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Print the product as JSON")
	lookupCmd.Flags().StringVar(&lookupBaseURL, "base-url", "", "Override foodfacts.base_url")
	rootCmd.AddCommand(lookupCmd)
}

func printProduct(w io.Writer, p *domain.Product) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.Code)
	if p.Quantity != "" {
		fmt.Fprintf(w, "Package: %s\n", p.Quantity)
	}
	fmt.Fprintf(w, "Nutri-Score: %s\n", p.NutriScore)
	fmt.Fprintf(w, "Expiration: %s\n", p.Expiration)
	n := p.Nutrients
	fmt.Fprintln(w, "Per 100 g:")
	fmt.Fprintf(w, "  kcal %.1f | protein %.1fg | carbs %.1fg | fat %.1fg\n", n.Kcal, n.Protein, n.Carbs, n.Fat)
	fmt.Fprintf(w, "  saturated %.1fg | trans %.1fg | fiber %.1fg\n", n.SaturatedFat, n.TransFat, n.Fiber)
	fmt.Fprintf(w, "  sodium %.3fg | sugars %.1fg | added sugars %.1fg\n", n.Sodium, n.Sugars, n.AddedSugars)
}
