package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/F-O-T/montte-core/cmd/monttecalc/config"
	"github.com/F-O-T/montte-core/internal/accrual"
	"github.com/F-O-T/montte-core/internal/models"
	"github.com/F-O-T/montte-core/internal/parsers"
	"github.com/F-O-T/montte-core/internal/renderer"
	"github.com/F-O-T/montte-core/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the accrue command
var (
	accrueAmount        float64
	accrueDueDate       string
	accrueReferenceDate string
	accrueBillsFile     string

	penaltyType     string
	penaltyValue    float64
	interestType    string
	interestValue   float64
	correctionIndex string
	graceDays       int

	rateSelic     float64
	rateIPCA      float64
	rateCDI       float64
	liveRates     bool
	redisAddr     string
	ratesCacheTTL time.Duration

	accrueOutputFormat string
	accrueLocale       string
)

// accrueCmd represents the accrue command
var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "Compute overdue accrual for a bill or a bills file",
	Long: `Accrue computes days overdue, penalty, mora interest and monetary
correction for a single bill or a CSV of bills, and prints a line-item
breakdown of the updated amount.

Examples:
  # Single bill with the statutory policy (2% penalty, 1%/month interest)
  monttecalc accrue --amount 1500.00 --due-date 2026-08-01

  # Fixed penalty with IPCA correction and a 5-day grace period
  monttecalc accrue --amount 900.00 --due-date 2026-07-15 \
    --penalty-type fixed --penalty-value 50 --correction-index ipca --grace-days 5

  # Batch over a CSV, fetching live rates with a redis cache
  monttecalc accrue --bills-file bills.csv --correction-index selic \
    --live-rates --redis-addr localhost:6379

  # Deterministic run for a past reference date
  monttecalc accrue --amount 200 --due-date 2026-05-01 --reference-date 2026-06-01`,

	PreRunE: validateAccrueFlags,
	RunE:    runAccrue,
}

func init() {
	rootCmd.AddCommand(accrueCmd)

	// Bill input flags
	accrueCmd.Flags().Float64Var(&accrueAmount, "amount", 0, "original bill amount")
	accrueCmd.Flags().StringVar(&accrueDueDate, "due-date", "", "bill due date (YYYY-MM-DD)")
	accrueCmd.Flags().StringVar(&accrueReferenceDate, "reference-date", "", "reference date (YYYY-MM-DD, default: today)")
	accrueCmd.Flags().StringVar(&accrueBillsFile, "bills-file", "", "path to bills CSV file (batch mode)")

	// Policy flags
	accrueCmd.Flags().StringVar(&penaltyType, "penalty-type", "percentage", "penalty type: none, percentage, fixed")
	accrueCmd.Flags().Float64Var(&penaltyValue, "penalty-value", 2, "penalty percentage or flat amount")
	accrueCmd.Flags().StringVar(&interestType, "interest-type", "monthly", "interest type: none, daily, monthly")
	accrueCmd.Flags().Float64Var(&interestValue, "interest-value", 1, "interest percentage per day or month")
	accrueCmd.Flags().StringVar(&correctionIndex, "correction-index", "none", "monetary correction index: none, ipca, selic, cdi")
	accrueCmd.Flags().IntVar(&graceDays, "grace-days", 0, "grace period in days")

	// Rates flags
	accrueCmd.Flags().Float64Var(&rateSelic, "rate-selic", 0, "annual selic rate override (percent)")
	accrueCmd.Flags().Float64Var(&rateIPCA, "rate-ipca", 0, "annual ipca rate override (percent)")
	accrueCmd.Flags().Float64Var(&rateCDI, "rate-cdi", 0, "annual cdi rate override (percent)")
	accrueCmd.Flags().BoolVar(&liveRates, "live-rates", false, "fetch current rates from the Banco Central API")
	accrueCmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for the rates cache (optional)")
	accrueCmd.Flags().DurationVar(&ratesCacheTTL, "rates-cache-ttl", time.Hour, "TTL for cached rate snapshots")

	// Output flags
	accrueCmd.Flags().StringVarP(&accrueOutputFormat, "output-format", "f", "console", "output format: console, json")
	accrueCmd.Flags().StringVar(&accrueLocale, "locale", "pt-BR", "label locale: pt-BR, en-US")

	viper.BindPFlag("redis-addr", accrueCmd.Flags().Lookup("redis-addr"))
	viper.BindPFlag("rates-cache-ttl", accrueCmd.Flags().Lookup("rates-cache-ttl"))
}

// validateAccrueFlags validates flag combinations before running
func validateAccrueFlags(cmd *cobra.Command, args []string) error {
	if accrueBillsFile == "" {
		if accrueAmount <= 0 {
			return fmt.Errorf("--amount must be positive in single-bill mode")
		}
		if accrueDueDate == "" {
			return fmt.Errorf("--due-date is required in single-bill mode")
		}
	}

	format := renderer.OutputFormat(accrueOutputFormat)
	if !format.IsValid() || format == renderer.FormatCSV {
		return fmt.Errorf("invalid output format '%s': must be console or json", accrueOutputFormat)
	}

	if !renderer.Locale(accrueLocale).IsValid() {
		return fmt.Errorf("invalid locale '%s': must be pt-BR or en-US", accrueLocale)
	}

	return nil
}

// runAccrue executes the accrue command
func runAccrue(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	log = log.WithComponent("accrue")

	policy, err := config.CreateInterestConfig(penaltyType, penaltyValue, interestType, interestValue, correctionIndex, graceDays)
	if err != nil {
		return err
	}

	snapshot, err := resolveRates(cmd.Context(), log)
	if err != nil {
		return err
	}

	var referenceDate time.Time
	if accrueReferenceDate != "" {
		referenceDate, err = models.ParseTimeWithFormats(accrueReferenceDate)
		if err != nil {
			return fmt.Errorf("invalid reference date: %w", err)
		}
	}

	bills, err := loadBills(log)
	if err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"bills":  len(bills),
		"policy": policy.String(),
		"rates":  snapshot.String(),
	}).Debug("running accrual")

	engine := accrual.NewEngine(policy, snapshot)
	result, err := engine.Run(bills, referenceDate)
	if err != nil {
		return err
	}

	return writeAccrueOutput(result)
}

// resolveRates picks the rate snapshot: live fetch when requested, otherwise
// flag overrides sanitized against the documented fallback defaults.
func resolveRates(ctx context.Context, log logger.Logger) (models.RateSnapshot, error) {
	if !liveRates {
		return config.CreateRateSnapshot(rateSelic, rateIPCA, rateCDI), nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	provider := config.CreateRatesProvider(viper.GetString("redis-addr"), ratesCacheTTL, log)
	return provider.Fetch(ctx)
}

// loadBills reads the batch file, or builds the single bill from flags
func loadBills(log logger.Logger) ([]*models.Bill, error) {
	if accrueBillsFile != "" {
		parser := parsers.NewBillParser(nil, log)
		return parser.ParseFile(accrueBillsFile)
	}

	dueDate, err := models.ParseTimeWithFormats(accrueDueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}

	bill := models.NewBill("bill-1", "", decimal.NewFromFloat(accrueAmount), dueDate)
	return []*models.Bill{bill}, nil
}

// writeAccrueOutput renders each bill's breakdown to stdout
func writeAccrueOutput(result *accrual.RunResult) error {
	r := renderer.NewRenderer(renderer.Locale(accrueLocale))

	switch renderer.OutputFormat(accrueOutputFormat) {
	case renderer.FormatJSON:
		for _, br := range result.Bills {
			if err := r.WriteBreakdownJSON(os.Stdout, br.Breakdown); err != nil {
				return err
			}
		}
	default:
		for i, br := range result.Bills {
			if len(result.Bills) > 1 {
				fmt.Printf("%s  %s\n", br.Bill.ID, br.Bill.Description)
			}
			if err := r.WriteBreakdownConsole(os.Stdout, br.Breakdown); err != nil {
				return err
			}
			if i < len(result.Bills)-1 {
				fmt.Println()
			}
		}
	}

	return nil
}
