package report

import (
	"fmt"
	"os"

	"thermopoll/internal/forecast"
)

// OrdersFile records the SARIMA orders the stepwise search settled on, or
// the configured fallback when the search failed.
func OrdersFile(path string, order forecast.Order, fallback bool) error {
	header := "Optimal SARIMAX model orders found by stepwise search:\n"
	if fallback {
		header = "Fallback SARIMAX orders due to search failure:\n"
	}
	body := header +
		fmt.Sprintf("ARIMA order (p,d,q): (%d, %d, %d)\n", order.P, order.D, order.Q) +
		fmt.Sprintf("Seasonal order (P,D,Q,m): (%d, %d, %d, %d)\n", order.SP, order.SD, order.SQ, order.M)
	return os.WriteFile(path, []byte(body), 0o644)
}
