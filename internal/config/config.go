package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	MealPlan  MealPlanConfig  `mapstructure:"mealplan"`
	FoodFacts FoodFactsConfig `mapstructure:"foodfacts"`
	Goals     GoalsConfig     `mapstructure:"goals"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// GeminiConfig configures the hosted generative model.
// Timeout of zero means the service imposes no deadline of its own.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MealPlanConfig controls how model output is turned into a plan.
type MealPlanConfig struct {
	// Extraction is "brace_span" (first '{' to last '}') or "balanced".
	Extraction       string `mapstructure:"extraction"`
	StrictValidation bool   `mapstructure:"strict_validation"`
	// LogRawResponse dumps the unparsed model output at debug level.
	LogRawResponse bool `mapstructure:"log_raw_response"`
}

type FoodFactsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// GoalsConfig holds the daily targets used for progress aggregation.
type GoalsConfig struct {
	Calories float64 `mapstructure:"calories"`
	Fat      float64 `mapstructure:"fat"`
	Carbs    float64 `mapstructure:"carbs"`
	Protein  float64 `mapstructure:"protein"`
	WaterML  float64 `mapstructure:"water_ml"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first so its values are
// visible to viper's environment lookup.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, gemini.api_key -> GEMINI_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// Running on env vars only is fine.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	// Plan generation blocks on model inference for several seconds.
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "nutrition_app")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.expiration", "24h")
	// Keys without a default are invisible to Unmarshal unless bound explicitly.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.timeout", "0s")
	v.SetDefault("mealplan.extraction", "brace_span")
	v.SetDefault("mealplan.strict_validation", true)
	v.SetDefault("mealplan.log_raw_response", false)
	v.SetDefault("foodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("foodfacts.timeout", "12s")
	v.SetDefault("foodfacts.user_agent", "nutrition-app/1.0")
	v.SetDefault("goals.calories", 2000)
	v.SetDefault("goals.fat", 70)
	v.SetDefault("goals.carbs", 300)
	v.SetDefault("goals.protein", 100)
	v.SetDefault("goals.water_ml", 2500)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}
