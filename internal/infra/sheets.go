// README: Google Sheets API client initialization.
package infra

import (
	"context"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewSheets builds a Sheets service authenticated with the given service
// account key file, or with application default credentials when the path
// is empty.
func NewSheets(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	if credentialsFile != "" {
		return sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	}
	return sheets.NewService(ctx)
}
