package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultShopAPIURL   = "http://localhost:8080"
	DefaultShopCurrency = "EUR"
)

// ShopはストアフロントCLIの設定（~/.evimeria/shop.yaml）
type Shop struct {
	APIURL   string `yaml:"api_url"`
	Currency string `yaml:"currency"`
	DataDir  string `yaml:"data_dir"`
}

// 設定ファイルの既定パス
func DefaultShopPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".evimeria", "shop.yaml")
	}
	return filepath.Join(home, ".evimeria", "shop.yaml")
}

// LoadShop は 既定値 → YAML → 環境変数 の順で上書きする。
// ファイルが無いのはエラーにしない。
func LoadShop(path string) (Shop, error) {
	cfg := Shop{
		APIURL:   DefaultShopAPIURL,
		Currency: DefaultShopCurrency,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Shop{}, fmt.Errorf("read %s: %w", path, err)
		default:
			var fromFile Shop
			if err := yaml.Unmarshal(data, &fromFile); err != nil {
				return Shop{}, fmt.Errorf("parse %s: %w", path, err)
			}
			cfg.merge(fromFile)
		}
	}

	cfg.merge(Shop{
		APIURL:   os.Getenv("SHOP_API_URL"),
		Currency: os.Getenv("SHOP_CURRENCY"),
		DataDir:  os.Getenv("SHOP_DATA_DIR"),
	})

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(filepath.Dir(DefaultShopPath()), "data")
	}
	return cfg, nil
}

// 空でない値だけ上書き
func (s *Shop) merge(o Shop) {
	if o.APIURL != "" {
		s.APIURL = o.APIURL
	}
	if o.Currency != "" {
		s.Currency = o.Currency
	}
	if o.DataDir != "" {
		s.DataDir = o.DataDir
	}
}

// カートを保存する sqlite ファイル
func (s Shop) StorePath() string {
	return filepath.Join(s.DataDir, "shop.db")
}
