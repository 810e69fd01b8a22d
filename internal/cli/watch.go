package cli

import (
	"context"
	"fmt"

	"ufscompras/internal/domain"
	"ufscompras/internal/messaging"
)

// runWatch prints confirmed purchases as they are announced until ctx ends.
func (a *App) runWatch(ctx context.Context, args []string) error {
	if _, err := parseArgs(a.flagSet("watch-purchases"), args); err != nil {
		return err
	}
	if a.Broker == nil {
		return ErrBrokerNotConfigured
	}

	consumer := messaging.NewPurchaseConsumer(a.Broker, func(ctx context.Context, e domain.PurchaseConfirmed) {
		fmt.Fprintln(a.Out, formatPurchase(e))
	})

	done, err := consumer.Start(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Err, "Aguardando compras confirmadas (Ctrl+C para sair)...")

	<-done
	return nil
}

func formatPurchase(e domain.PurchaseConfirmed) string {
	line := fmt.Sprintf("%s  %s x%d  estoque restante: %d",
		e.Timestamp.UTC().Format("02/01/2006 15:04:05"), e.ProductID, e.Quantity, e.RemainingStock)
	if n := len(e.Accessories); n > 0 {
		line += fmt.Sprintf("  +%d acessório(s)", n)
	}
	return line
}
