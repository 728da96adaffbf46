package main

import (
	"github.com/spf13/cobra"

	"evimeria/internal/config"
)

type rootOptions struct {
	configPath string
	apiURL     string
	currency   string
	dataDir    string
	verbose    bool
}

// newRootCmd はストアフロントCLIのコマンド木を作る。
// 各サブコマンドは PersistentPreRunE で開いた app を使い、実行後は返した close で閉じる。
func newRootCmd() (*cobra.Command, func() error) {
	opts := &rootOptions{}
	var app *shopApp

	root := &cobra.Command{
		Use:           "shop",
		Short:         "EVIMERIA storefront in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadShop(opts.configPath)
			if err != nil {
				return err
			}
			// フラグは設定ファイル・環境変数より優先
			if opts.apiURL != "" {
				cfg.APIURL = opts.apiURL
			}
			if opts.currency != "" {
				cfg.Currency = opts.currency
			}
			if opts.dataDir != "" {
				cfg.DataDir = opts.dataDir
			}

			app, err = openShopApp(cmd.Context(), cfg, opts.verbose)
			return err
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultShopPath(), "Config file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Catalog API base URL (or set SHOP_API_URL)")
	root.PersistentFlags().StringVar(&opts.currency, "currency", "", "Display currency: EUR, USD, MAD, XOF (or set SHOP_CURRENCY)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory for the local cart store (or set SHOP_DATA_DIR)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	appFn := func() *shopApp { return app }
	root.AddCommand(
		newHomeCmd(appFn),
		newProductsCmd(appFn),
		newProductCmd(appFn),
		newSearchCmd(appFn),
		newCategoriesCmd(appFn),
		newSubCategoriesCmd(appFn),
		newCartCmd(appFn),
		newCheckoutCmd(appFn),
	)
	closeApp := func() error {
		if app == nil {
			return nil
		}
		err := app.Close()
		app = nil
		return err
	}
	return root, closeApp
}
