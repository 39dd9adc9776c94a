package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kevin07696/billing-service/internal/domain"
	serviceports "github.com/kevin07696/billing-service/internal/services/ports"
	"github.com/spf13/cobra"
)

var testCharge bool

var chargeCmd = &cobra.Command{
	Use:   "charge",
	Short: "Charge all due recurrent payments once",
	Long: "Sweeps every active recurrent payment whose charge time has passed, " +
		"charges it through its gateway and schedules the next attempt. " +
		"Intended to run from a scheduler under an external single-instance lock.",
	Run: func(_ *cobra.Command, _ []string) {
		runChargeBatch()
	},
}

func init() {
	chargeCmd.Flags().BoolVar(&testCharge, "test", false,
		"Route all charges to the test gateway (ledger writes still happen)")
	rootCmd.AddCommand(chargeCmd)
}

func runChargeBatch() {
	ctx := context.Background()

	a, err := buildApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer a.close()

	_, err = a.charges.RunBatch(ctx, serviceports.RunOptions{TestCharge: testCharge})
	if err != nil {
		// individual token failures are absorbed into the summary; an error
		// here means configuration is unusable and the scheduler must alert
		if domain.IsConfigError(err) {
			a.close()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
	}
}
