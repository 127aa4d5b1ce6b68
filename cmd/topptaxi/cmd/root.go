// README: One-shot quote command for the terminal.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"topptaxi/internal/config"
	"topptaxi/internal/infra"
	"topptaxi/internal/maps"
	"topptaxi/internal/modules/catalog"
	"topptaxi/internal/modules/quote"
	"topptaxi/internal/modules/tariff"
)

var (
	fromArg       string
	toArg         string
	passengersArg int
	fixedFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "topptaxi",
	Short: "Taxi price calculator",
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a trip between two endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuote(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	quoteCmd.Flags().StringVarP(&fromArg, "from", "f", "", "Origin address or place")
	quoteCmd.Flags().StringVarP(&toArg, "to", "t", "", "Destination address or place")
	quoteCmd.Flags().IntVarP(&passengersArg, "passengers", "p", 0, "Passenger count (0 to list all tariffs)")
	quoteCmd.Flags().BoolVar(&fixedFlag, "fixed", false, "Look up a fixed-price route instead of metered pricing")
	_ = quoteCmd.MarkFlagRequired("from")
	_ = quoteCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}

	logger := zap.NewNop()

	geoSvc, err := maps.NewGeoService(cfg.GoogleAPIKey, cfg.OutboundTimeout(), cfg.Language, cfg.CountryBias, nil, logger)
	if err != nil {
		return err
	}
	routeSvc, err := maps.NewRouteService(cfg.GoogleAPIKey, cfg.OutboundTimeout(), logger)
	if err != nil {
		return err
	}

	var catalogSvc quote.Catalog = noCatalog{}
	if fixedFlag {
		svc, err := infra.NewSheets(ctx, cfg.Credentials)
		if err != nil {
			return err
		}
		store := catalog.NewSheetsStore(svc, cfg.SpreadsheetID, cfg.PlacesSheet, cfg.RoutesSheet, cfg.PricesSheet, cfg.OutboundTimeout())
		catalogSvc = catalog.NewService(store, geoSvc, cfg.SnapshotTTL(), logger)
	}

	tariffSvc := tariff.NewService(cfg.SettingsFile, logger)
	quoteSvc := quote.NewService(tariffSvc, catalogSvc, routeSvc, geoSvc, cfg.GoogleAPIKey, logger)

	res, err := quoteSvc.Calculate(ctx, quote.Request{
		Origin:      fromArg,
		Destination: toArg,
		Passengers:  passengersArg,
		FixedRoute:  fixedFlag,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s → %s\n", res.Origin, res.Destination)
	if res.Unavailable {
		fmt.Println("No route estimate available.")
		return nil
	}
	if res.DistanceKm != nil {
		fmt.Printf("%.1f km, %s\n", *res.DistanceKm, res.Duration)
	}
	for _, row := range res.Rows {
		fmt.Printf("  %-28s %6d kr\n", row.Label, row.Cost)
	}
	fmt.Println(res.DirectionsURL)
	return nil
}

// noCatalog serves the metered flow, which never matches fixed routes.
type noCatalog struct{}

func (noCatalog) MatchRoute(context.Context, string, string) *catalog.Route { return nil }
