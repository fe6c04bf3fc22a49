package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/llm"
	"nutriai/nutrition-app/internal/mealplan"

	"github.com/spf13/cobra"
)

var (
	genAttrs        domain.UserAttributes
	genResponseFile string
	genPromptOnly   bool
	genEnvelope     bool
)

// generateCmd runs the /create pipeline from the terminal.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a one-day meal plan",
	Long: "Generate builds the same prompt as POST /create and prints the parsed plan as JSON.\n" +
		"Use --response-file to parse a saved model reply instead of calling the model.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if missing := missingAttributes(genAttrs); len(missing) > 0 {
			return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
		}
		if genPromptOnly {
			fmt.Fprintln(cmd.OutOrStdout(), mealplan.BuildPrompt(genAttrs))
			return nil
		}

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()

		// A saved reply replaces the model, which makes extraction issues reproducible offline
		var model mealplan.TextModel
		if genResponseFile != "" {
			model = savedResponse(genResponseFile)
		} else {
			gemini, err := llm.NewGeminiClient(ctx, cfg.Gemini)
			if err != nil {
				return err
			}
			defer gemini.Close()
			model = gemini
			if cfg.Gemini.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Gemini.Timeout)
				defer cancel()
			}
		}

		gen, err := mealplan.NewGenerator(model, mealplan.Options{
			Extraction:       cfg.MealPlan.Extraction,
			StrictValidation: cfg.MealPlan.StrictValidation,
			LogRawResponse:   cfg.MealPlan.LogRawResponse,
		}, log.Named("mealplan"))
		if err != nil {
			return err
		}

		plan, err := gen.Generate(ctx, genAttrs)
		if err != nil {
			return err
		}

		// --envelope wraps the plan like the HTTP response: {"data": plan}
		var out interface{} = plan
		if genEnvelope {
			out = map[string]interface{}{"data": plan}
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genAttrs.Name, "name", "", "User name")
	f.StringVar((*string)(&genAttrs.Age), "age", "", "Age in years")
	f.StringVar(&genAttrs.Gender, "gender", "", "masculino or feminino")
	f.StringVar((*string)(&genAttrs.Height), "height", "", "Height in cm")
	f.StringVar((*string)(&genAttrs.Weight), "weight", "", "Weight in kg")
	f.StringVar(&genAttrs.Level, "level", "", "Activity level as shown in the onboarding form")
	f.StringVar(&genAttrs.Objective, "objective", "", "emagrecer, hipertrofia, hipertrofia + definição or definição")
	f.StringVar(&genResponseFile, "response-file", "", "Parse this saved model reply instead of calling the model")
	f.BoolVar(&genPromptOnly, "prompt-only", false, "Print the prompt and exit")
	f.BoolVar(&genEnvelope, "envelope", false, "Wrap the plan in {\"data\": ...} like the HTTP endpoint")
	rootCmd.AddCommand(generateCmd)
}

// missingAttributes lists the flags left blank, in flag order.
func missingAttributes(a domain.UserAttributes) []string {
	var missing []string
	for _, f := range []struct{ flag, value string }{
		{"--name", a.Name},
		{"--age", string(a.Age)},
		{"--gender", a.Gender},
		{"--height", string(a.Height)},
		{"--weight", string(a.Weight)},
		{"--level", a.Level},
		{"--objective", a.Objective},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.flag)
		}
	}
	return missing
}

// savedResponse replays a model reply stored on disk.
type savedResponse string

func (s savedResponse) GenerateJSON(_ context.Context, _ string) (string, error) {
	b, err := os.ReadFile(string(s))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
