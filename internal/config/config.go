package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Data      Data      `yaml:"data"`
	Databases Databases `yaml:"databases"`
	Server    Server    `yaml:"server"`
}

type Data struct {
	Dir     string            `yaml:"dir"`
	Sources map[string]string `yaml:"sources"`
}

type Databases struct {
	Postgres string `yaml:"postgres"`
	MySQL    string `yaml:"mysql"`
	Mongo    string `yaml:"mongo"`
	MongoDB  string `yaml:"mongo_database"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

// DefaultSources maps each logical entity name to its Olist dataset
// filename. Entries in data.sources override these.
func DefaultSources() map[string]string {
	return map[string]string{
		"customers":            "olist_customers_dataset.csv",
		"orders":               "olist_orders_dataset.csv",
		"order_items":          "olist_order_items_dataset.csv",
		"payments":             "olist_order_payments_dataset.csv",
		"reviews":              "olist_order_reviews_dataset.csv",
		"products":             "olist_products_dataset.csv",
		"sellers":              "olist_sellers_dataset.csv",
		"category_translation": "product_category_name_translation.csv",
	}
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	if config.Data.Dir == "" {
		config.Data.Dir = "data"
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":5000"
	}
	if config.Databases.MongoDB == "" {
		config.Databases.MongoDB = "ordersdb"
	}

	sources := DefaultSources()
	for name, filename := range config.Data.Sources {
		sources[name] = filename
	}
	config.Data.Sources = sources

	return config, nil
}
