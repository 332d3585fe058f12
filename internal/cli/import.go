package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/ports"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a monthly bill",
	Long: `Import a monthly bill from a JSON document. A bill already stored for
the same month is replaced. Use "-" to read from stdin.

Example document:
  {
    "month": "2024-03",
    "subscribers": [
      {"name": "Ada Lovelace", "number": "555-0100", "line": "20.00",
       "minutes": 320, "messages": 1200, "data": "4.2", "total": "53.75"}
    ],
    "charges": [{"name": "Taxes", "total": "6.10", "split": true}]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open bill: %w", err)
		}
		defer f.Close()
		r = f
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	bill, err := importBill(ctx, app.Bills, r)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d subscribers, %d charges, total %s\n",
		domain.FormatMonth(bill.Month), len(bill.Subscribers), len(bill.Charges), bill.Total().StringFixed(2))
	return nil
}

// importBill decodes one bill document and stores it.
func importBill(ctx context.Context, bills ports.BillRepository, r io.Reader) (*domain.Bill, error) {
	bill, err := domain.DecodeBill(r)
	if err != nil {
		return nil, err
	}
	if err := bills.Save(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	return bill, nil
}
